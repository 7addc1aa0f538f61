package logging

import (
	"fmt"
	"sync"
)

// LoggerManager хранит логгеры компонентов и их персональные уровни
type LoggerManager struct {
	mu      sync.RWMutex
	loggers map[string]*Logger
	levels  map[string]LogLevel
}

var (
	globalManager *LoggerManager
	managerOnce   sync.Once
)

// GetLoggerManager возвращает глобальный менеджер логгеров
func GetLoggerManager() *LoggerManager {
	managerOnce.Do(func() {
		globalManager = &LoggerManager{
			loggers: make(map[string]*Logger),
			levels:  make(map[string]LogLevel),
		}
	})
	return globalManager
}

// GetLogger возвращает логгер компонента, создавая его при первом обращении.
// Уровень из Configure/SetLogLevel применяется и к новым логгерам.
func (lm *LoggerManager) GetLogger(component string) (*Logger, error) {
	lm.mu.RLock()
	logger, exists := lm.loggers[component]
	lm.mu.RUnlock()
	if exists {
		return logger, nil
	}

	lm.mu.Lock()
	defer lm.mu.Unlock()

	if logger, exists := lm.loggers[component]; exists {
		return logger, nil
	}

	logger, err := NewLogger(component)
	if err != nil {
		return nil, fmt.Errorf("логгер компонента %s: %w", component, err)
	}
	if level, ok := lm.levels[component]; ok {
		applyLevel(logger, level)
	}

	lm.loggers[component] = logger
	return logger, nil
}

// MustGetLogger возвращает логгер или консольный fallback при ошибке
func (lm *LoggerManager) MustGetLogger(component string) *Logger {
	logger, err := lm.GetLogger(component)
	if err != nil {
		level := INFO
		lm.mu.RLock()
		if l, ok := lm.levels[component]; ok {
			level = l
		}
		lm.mu.RUnlock()
		return newConsoleLogger(component, level)
	}
	return logger
}

// SetLogLevel задаёт порог консоли компонента. Файл получает не менее подробный
// из двух порогов: глобального и компонентного.
func (lm *LoggerManager) SetLogLevel(component string, level LogLevel) {
	lm.mu.Lock()
	lm.levels[component] = level
	logger := lm.loggers[component]
	lm.mu.Unlock()

	if logger != nil {
		applyLevel(logger, level)
	}
}

// Configure применяет уровни из конфигурации: компонент -> имя уровня
func (lm *LoggerManager) Configure(levels map[string]string) {
	for component, name := range levels {
		lm.SetLogLevel(component, ParseLevel(name))
	}
}

func applyLevel(l *Logger, level LogLevel) {
	optsMu.RLock()
	file := currentOpts.FileLevel
	optsMu.RUnlock()

	if level < file {
		file = level
	}
	l.SetLevels(level, file)
}

// CloseAll закрывает файлы всех логгеров. Уровни компонентов сохраняются.
func (lm *LoggerManager) CloseAll() error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	var lastErr error
	for component, logger := range lm.loggers {
		if err := logger.Close(); err != nil {
			lastErr = fmt.Errorf("закрытие логгера %s: %w", component, err)
		}
	}

	lm.loggers = make(map[string]*Logger)
	return lastErr
}

func GetComponentLogger(component string) *Logger {
	return GetLoggerManager().MustGetLogger(component)
}

func GetWorldLogger() *Logger {
	return GetComponentLogger("world")
}

func GetPipelineLogger() *Logger {
	return GetComponentLogger("pipeline")
}

func GetStorageLogger() *Logger {
	return GetComponentLogger("storage")
}

func GetServerLogger() *Logger {
	return GetComponentLogger("server")
}
