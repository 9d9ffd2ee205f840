package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogCategory represents different log categories
type LogCategory string

const (
	CategoryAccess  LogCategory = "access"  // HTTP requests
	CategoryResolve LogCategory = "resolve" // resolve pipeline events
	CategoryError   LogCategory = "error"   // application errors
)

// Categories lists every category with its own log file
var Categories = []LogCategory{CategoryAccess, CategoryResolve, CategoryError}

// MultiLogger writes each category to its own daily JSON file and mirrors
// everything to a console logger
type MultiLogger struct {
	loggers map[LogCategory]*zap.Logger
	files   []*dailyFile
	console *zap.Logger
	config  MultiLoggerConfig
	mu      sync.RWMutex
}

// MultiLoggerConfig contains configuration for multi-output logging
type MultiLoggerConfig struct {
	Level   string // debug, info, warn, error
	LogsDir string // Directory for log files
	Console *zap.Logger
	Now     func() time.Time // clock used to pick the daily file; defaults to time.Now
}

// NewMultiLogger creates a new multi-output logger
func NewMultiLogger(config MultiLoggerConfig) (*MultiLogger, error) {
	if config.LogsDir == "" {
		return nil, fmt.Errorf("logs_dir must be specified")
	}
	if err := os.MkdirAll(config.LogsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	console := config.Console
	if console == nil {
		console = zap.NewNop()
	}

	ml := &MultiLogger{
		loggers: make(map[LogCategory]*zap.Logger),
		console: console,
		config:  config,
	}

	level, err := zapcore.ParseLevel(config.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	for _, category := range Categories {
		categoryLevel := level
		if category == CategoryError {
			categoryLevel = zapcore.ErrorLevel
		}

		l, err := ml.createStructuredLogger(category, categoryLevel)
		if err != nil {
			ml.Close()
			return nil, fmt.Errorf("failed to create %s logger: %w", category, err)
		}
		ml.loggers[category] = l
	}

	return ml, nil
}

// createStructuredLogger creates a JSON file logger for a category, teed to the console
func (ml *MultiLogger) createStructuredLogger(category LogCategory, level zapcore.Level) (*zap.Logger, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "ts"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.CallerKey = ""

	file, err := newDailyFile(ml.config.LogsDir, category, ml.config.Now)
	if err != nil {
		return nil, err
	}
	ml.files = append(ml.files, file)

	fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), file, level)
	core := zapcore.NewTee(fileCore, ml.console.Core())

	return zap.New(core).With(zap.String("category", string(category))), nil
}

// CategoryLogPath returns the log file path of a category for a date
func (ml *MultiLogger) CategoryLogPath(category LogCategory, date time.Time) string {
	return categoryLogPath(ml.config.LogsDir, category, date)
}

// LogsDir returns the directory holding the category log files
func (ml *MultiLogger) LogsDir() string {
	return ml.config.LogsDir
}

func categoryLogPath(dir string, category LogCategory, date time.Time) string {
	filename := fmt.Sprintf("%s-%s.log", category, date.Format("20060102"))
	return filepath.Join(dir, filename)
}

// GetLogger returns the logger for a category
func (ml *MultiLogger) GetLogger(category LogCategory) *zap.Logger {
	ml.mu.RLock()
	defer ml.mu.RUnlock()

	if l, ok := ml.loggers[category]; ok {
		return l
	}
	return ml.loggers[CategoryError]
}

// Access returns the HTTP access logger
func (ml *MultiLogger) Access() *zap.Logger {
	return ml.GetLogger(CategoryAccess)
}

// Resolve returns the resolve pipeline logger
func (ml *MultiLogger) Resolve() *zap.Logger {
	return ml.GetLogger(CategoryResolve)
}

// Error returns the error logger
func (ml *MultiLogger) Error() *zap.Logger {
	return ml.GetLogger(CategoryError)
}

// LogError logs to a category and to the error log
func (ml *MultiLogger) LogError(category LogCategory, msg string, fields ...zap.Field) {
	ml.GetLogger(category).Error(msg, fields...)
	if category != CategoryError {
		ml.Error().Error(msg, fields...)
	}
}

// Sync flushes all loggers
func (ml *MultiLogger) Sync() error {
	ml.mu.RLock()
	defer ml.mu.RUnlock()

	var lastErr error
	for _, l := range ml.loggers {
		if err := l.Sync(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Close flushes all loggers and closes the log files
func (ml *MultiLogger) Close() error {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	var lastErr error
	for _, l := range ml.loggers {
		if err := l.Sync(); err != nil {
			lastErr = err
		}
	}
	for _, f := range ml.files {
		if err := f.Close(); err != nil {
			lastErr = err
		}
	}
	ml.files = nil
	return lastErr
}
