package logger

import (
	"go.uber.org/zap"
)

// LoggerAdapter provides a unified interface for both single and multi-logger
type LoggerAdapter struct {
	multiLogger  *MultiLogger
	singleLogger *zap.Logger
	useMulti     bool
}

// NewLoggerAdapter creates a new logger adapter
func NewLoggerAdapter(multiLogger *MultiLogger) *LoggerAdapter {
	return &LoggerAdapter{
		multiLogger:  multiLogger,
		singleLogger: multiLogger.console,
		useMulti:     true,
	}
}

// NewSingleLoggerAdapter creates an adapter that sends every category to one logger
func NewSingleLoggerAdapter(logger *zap.Logger) *LoggerAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggerAdapter{
		singleLogger: logger,
		useMulti:     false,
	}
}

// Access returns the HTTP access logger
func (la *LoggerAdapter) Access() *zap.Logger {
	if la.useMulti {
		return la.multiLogger.Access()
	}
	return la.singleLogger
}

// Resolve returns the resolve pipeline logger
func (la *LoggerAdapter) Resolve() *zap.Logger {
	if la.useMulti {
		return la.multiLogger.Resolve()
	}
	return la.singleLogger
}

// Error returns the error logger
func (la *LoggerAdapter) Error() *zap.Logger {
	if la.useMulti {
		return la.multiLogger.Error()
	}
	return la.singleLogger
}

// General returns the console logger for lifecycle messages
func (la *LoggerAdapter) General() *zap.Logger {
	return la.singleLogger
}

// LogError logs an error to both category and error logs
func (la *LoggerAdapter) LogError(category LogCategory, msg string, fields ...zap.Field) {
	if la.useMulti {
		la.multiLogger.LogError(category, msg, fields...)
		return
	}
	la.singleLogger.Error(msg, fields...)
}

// LogsDir returns the category log directory, or "" for a single logger
func (la *LoggerAdapter) LogsDir() string {
	if la.useMulti {
		return la.multiLogger.LogsDir()
	}
	return ""
}

// Sync flushes all loggers
func (la *LoggerAdapter) Sync() error {
	if la.useMulti {
		return la.multiLogger.Sync()
	}
	return la.singleLogger.Sync()
}

// Close releases log files held by a multi-logger
func (la *LoggerAdapter) Close() error {
	if la.useMulti {
		return la.multiLogger.Close()
	}
	return la.singleLogger.Sync()
}
