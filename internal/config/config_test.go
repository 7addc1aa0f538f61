package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithoutFileReturnsDefaults(t *testing.T) {
	t.Setenv("VOXEL_CONFIG", "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 200*time.Millisecond, cfg.Fluid.TickInterval())
	assert.Equal(t, 5*time.Minute, cfg.Storage.AutosaveInterval())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voxel.yaml")
	yml := `
world:
  seed: 1337
  noise_backend: perlin
pipeline:
  enabled: false
storage:
  backend: badger
  save_on_edit: true
  redis:
    addr: redis:6379
server:
  rest_port: 9000
logging:
  level: warn
  components:
    fluid: debug
    storage: error
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))
	t.Setenv("VOXEL_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, int64(1337), cfg.World.Seed)
	assert.Equal(t, "perlin", cfg.World.NoiseBackend)
	assert.False(t, cfg.Pipeline.Enabled)
	assert.Equal(t, 4, cfg.Pipeline.MaxWorkers, "незаданные поля берутся из дефолтов")
	assert.Equal(t, "badger", cfg.Storage.Backend)
	assert.True(t, cfg.Storage.SaveOnEdit)
	assert.Equal(t, "redis:6379", cfg.Storage.GetRedisAddr())
	assert.Equal(t, 9000, cfg.Server.GetRESTPort())
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Console, "консоль остаётся из дефолтов")
	assert.Equal(t, map[string]string{"fluid": "debug", "storage": "error"}, cfg.Logging.Components)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("world: [1, 2"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestEnvFallbacks(t *testing.T) {
	tests := []struct {
		name   string
		env    map[string]string
		port   int
		dsn    string
		target ServerConfig
	}{
		{"дефолт", nil, 8088, "", ServerConfig{}},
		{"из окружения", map[string]string{"VOXEL_REST_PORT": "9100", "VOXEL_MYSQL_DSN": "u:p@/db"}, 9100, "u:p@/db", ServerConfig{}},
		{"конфиг важнее", map[string]string{"VOXEL_REST_PORT": "9100"}, 7000, "", ServerConfig{RESTPort: 7000}},
		{"мусор в окружении", map[string]string{"VOXEL_REST_PORT": "abc"}, 8088, "", ServerConfig{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("VOXEL_REST_PORT", "")
			t.Setenv("VOXEL_MYSQL_DSN", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			assert.Equal(t, tt.port, tt.target.GetRESTPort())
			assert.Equal(t, tt.dsn, StorageConfig{}.GetMySQLDSN())
		})
	}
}
