package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации приложения.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Fluid     FluidConfig     `yaml:"fluid"`
	Mesh      MeshConfig      `yaml:"mesh"`
	Storage   StorageConfig   `yaml:"storage"`
	Server    ServerConfig    `yaml:"server"`
	EventBus  EventBusConfig  `yaml:"eventbus"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type WorldConfig struct {
	Seed         int64  `yaml:"seed"`
	NoiseBackend string `yaml:"noise_backend"`
	// PreloadRadius радиус чанков вокруг (0,0), запрашиваемых при старте
	PreloadRadius int `yaml:"preload_radius"`
}

type PipelineConfig struct {
	Enabled      bool `yaml:"enabled"`
	MaxWorkers   int  `yaml:"max_workers"`
	ResultBuffer int  `yaml:"result_buffer"`
}

type FluidConfig struct {
	TickIntervalMS int `yaml:"tick_interval_ms"`
}

// TickInterval интервал шага жидкости
func (f FluidConfig) TickInterval() time.Duration {
	return time.Duration(f.TickIntervalMS) * time.Millisecond
}

type MeshConfig struct {
	RefinePerTick int `yaml:"refine_per_tick"`
}

type StorageConfig struct {
	Backend         string      `yaml:"backend"`
	Path            string      `yaml:"path"`
	Key             string      `yaml:"key"`
	Compress        bool        `yaml:"compress"`
	AutosaveSeconds int         `yaml:"autosave_seconds"`
	SaveOnEdit      bool        `yaml:"save_on_edit"`
	Redis           RedisConfig `yaml:"redis"`
	MySQLDSN        string      `yaml:"mysql_dsn"`
	MongoURI        string      `yaml:"mongo_uri"`
	MongoDatabase   string      `yaml:"mongo_database"`
}

type RedisConfig struct {
	Addr       string `yaml:"addr"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	KeyPrefix  string `yaml:"key_prefix"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

// AutosaveInterval интервал автосохранения, 0 - выключено
func (s StorageConfig) AutosaveInterval() time.Duration {
	return time.Duration(s.AutosaveSeconds) * time.Second
}

// GetMySQLDSN DSN MySQL с приоритетом: config -> env VOXEL_MYSQL_DSN
func (s StorageConfig) GetMySQLDSN() string {
	return getStringWithEnvFallback(s.MySQLDSN, "VOXEL_MYSQL_DSN", "")
}

// GetMongoURI URI MongoDB с приоритетом: config -> env VOXEL_MONGO_URI -> default
func (s StorageConfig) GetMongoURI() string {
	return getStringWithEnvFallback(s.MongoURI, "VOXEL_MONGO_URI", "mongodb://localhost:27017")
}

// GetRedisAddr адрес Redis с приоритетом: config -> env VOXEL_REDIS_ADDR -> default
func (s StorageConfig) GetRedisAddr() string {
	return getStringWithEnvFallback(s.Redis.Addr, "VOXEL_REDIS_ADDR", "localhost:6379")
}

type ServerConfig struct {
	RESTPort int `yaml:"rest_port"`
}

// GetRESTPort возвращает REST API порт с поддержкой fallback значений
func (s *ServerConfig) GetRESTPort() int {
	return getPortWithEnvFallback(s.RESTPort, "VOXEL_REST_PORT", 8088)
}

type EventBusConfig struct {
	// NATSURL пустой - события остаются в памяти процесса
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

type LoggingConfig struct {
	Dir     string `yaml:"dir"`
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
	// Components уровни отдельных компонентов: fluid: debug, storage: warn
	Components map[string]string `yaml:"components"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		World: WorldConfig{
			Seed:          0,
			NoiseBackend:  "simplex",
			PreloadRadius: 2,
		},
		Pipeline: PipelineConfig{
			Enabled:      true,
			MaxWorkers:   4,
			ResultBuffer: 64,
		},
		Fluid: FluidConfig{TickIntervalMS: 200},
		Mesh:  MeshConfig{RefinePerTick: 4},
		Storage: StorageConfig{
			Backend:         "file",
			Path:            "data",
			Key:             "voxelcraft_world_v1",
			AutosaveSeconds: 300,
			Redis: RedisConfig{
				KeyPrefix: "voxel:",
			},
			MongoDatabase: "voxel",
		},
		Server:   ServerConfig{RESTPort: 8088},
		EventBus: EventBusConfig{Subject: "voxel.events"},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			ServiceName: "voxel-terrain",
		},
		Logging: LoggingConfig{
			Dir:     "logs",
			Level:   "INFO",
			Console: true,
		},
	}
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}
	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}
	return defaultPort
}

func getStringWithEnvFallback(value, envVar, def string) string {
	if value != "" {
		return value
	}
	if envVal := os.Getenv(envVar); envVal != "" {
		return envVal
	}
	return def
}

// Load читает YAML файл конфигурации поверх Default().
// Если path == "", берёт путь из ENV VOXEL_CONFIG; без файла возвращает дефолты.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv("VOXEL_CONFIG")
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение конфига %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("разбор конфига %s: %w", path, err)
	}
	return cfg, nil
}
