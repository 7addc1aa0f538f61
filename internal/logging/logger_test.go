package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"trace":   TRACE,
		"DEBUG":   DEBUG,
		"warning": WARN,
		"error":   ERROR,
		"":        INFO,
		"bogus":   INFO,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "уровень для %q", in)
	}
}

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitDefaultLogger(Options{ConsoleLevel: WARN, FileLevel: ERROR, Console: &buf}))
	defer func() { _ = InitDefaultLogger(Options{ConsoleLevel: INFO, FileLevel: DEBUG}) }()

	Info("скрытое сообщение")
	Warn("видимое %d", 42)

	out := buf.String()
	assert.NotContains(t, out, "скрытое")
	assert.Contains(t, out, "[WARN] видимое 42")
}

func TestComponentLoggerWritesFile(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	require.NoError(t, InitDefaultLogger(Options{Dir: dir, ConsoleLevel: ERROR, FileLevel: DEBUG, Console: &buf}))
	defer func() {
		CloseDefaultLogger()
		_ = InitDefaultLogger(Options{ConsoleLevel: INFO, FileLevel: DEBUG})
	}()

	l, err := GetLoggerManager().GetLogger("fluid-test")
	require.NoError(t, err)
	l.Debug("tick %d", 7)
	require.NoError(t, l.Close())

	matches, err := filepath.Glob(filepath.Join(dir, "fluid-test_*.log"))
	require.NoError(t, err)
	require.Len(t, matches, 1, "ожидался один файл логов компонента")

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "[DEBUG] [fluid-test] tick 7")
	assert.Empty(t, buf.String(), "DEBUG не должен попадать в консоль")
}

func TestComponentLevelsFromConfig(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitDefaultLogger(Options{ConsoleLevel: INFO, FileLevel: DEBUG, Console: &buf}))
	defer func() { _ = InitDefaultLogger(Options{ConsoleLevel: INFO, FileLevel: DEBUG}) }()

	lm := GetLoggerManager()
	require.NoError(t, lm.CloseAll())
	existing, err := lm.GetLogger("levels-existing")
	require.NoError(t, err)

	lm.Configure(map[string]string{
		"levels-existing": "error",
		"levels-later":    "debug",
	})

	existing.Warn("тихое предупреждение")
	existing.Error("громкая ошибка")
	GetComponentLogger("levels-later").Debug("подробности %d", 1)
	GetComponentLogger("levels-other").Debug("скрытые подробности")

	out := buf.String()
	assert.NotContains(t, out, "тихое предупреждение", "уровень применяется к уже созданному логгеру")
	assert.Contains(t, out, "громкая ошибка")
	assert.Contains(t, out, "подробности 1", "уровень применяется к логгеру, созданному позже")
	assert.NotContains(t, out, "скрытые подробности", "остальные компоненты на общем уровне")
}

func TestComponentLevelLowersFileThreshold(t *testing.T) {
	require.NoError(t, InitDefaultLogger(Options{ConsoleLevel: INFO, FileLevel: DEBUG, Console: &bytes.Buffer{}}))
	defer func() { _ = InitDefaultLogger(Options{ConsoleLevel: INFO, FileLevel: DEBUG}) }()

	lm := GetLoggerManager()
	require.NoError(t, lm.CloseAll())
	lm.SetLogLevel("levels-trace", TRACE)
	l := GetComponentLogger("levels-trace")
	assert.Equal(t, TRACE, l.minConsoleLevel)
	assert.Equal(t, TRACE, l.minFileLevel)

	lm.SetLogLevel("levels-trace", WARN)
	assert.Equal(t, WARN, l.minConsoleLevel)
	assert.Equal(t, DEBUG, l.minFileLevel, "файл остаётся на глобальном уровне")
}
