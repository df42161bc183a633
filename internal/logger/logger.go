// Package logger provides the process-wide zap logger and the
// context-scoped logr.Logger used by the synchronization core.
package logger

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelEnvVar overrides the configured log level
const LevelEnvVar = "INDEX_SETTINGS_LOG_LEVEL"

// Config controls the logger built by Initialize
type Config struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string

	// Debug forces the debug level and the development encoder
	Debug bool

	// File, when set, additionally writes JSON logs to a rotating file
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

var (
	mu     sync.RWMutex
	sugar  = zap.NewNop().Sugar()
	logger = zap.NewNop()
)

// Initialize replaces the global logger according to cfg
func Initialize(cfg Config) error {
	level := zapcore.InfoLevel
	name := cfg.Level
	if env := os.Getenv(LevelEnvVar); env != "" {
		name = env
	}
	if name != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(name))); err != nil {
			return err
		}
	}
	if cfg.Debug {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	consoleEnc := zapcore.NewConsoleEncoder(encCfg)
	if cfg.Debug {
		consoleEnc = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEnc, zapcore.Lock(os.Stderr), level),
	}
	if cfg.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(rotating), level))
	}

	Set(zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1)))
	return nil
}

// Set installs l as the global logger
func Set(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
	sugar = l.Sugar()
}

// Get returns the global zap logger
func Get() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func get() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// Sync flushes buffered log entries
func Sync() {
	_ = Get().Sync()
}

// Debugf logs a formatted message at debug level
func Debugf(format string, args ...any) { get().Debugf(format, args...) }

// Infof logs a formatted message at info level
func Infof(format string, args ...any) { get().Infof(format, args...) }

// Warnf logs a formatted message at warn level
func Warnf(format string, args ...any) { get().Warnf(format, args...) }

// Errorf logs a formatted message at error level
func Errorf(format string, args ...any) { get().Errorf(format, args...) }

// Fatalf logs a formatted message and exits the process
func Fatalf(format string, args ...any) { get().Fatalf(format, args...) }

// Infow logs a message with structured key/value pairs
func Infow(msg string, keysAndValues ...any) { get().Infow(msg, keysAndValues...) }

// Debugw logs a debug message with structured key/value pairs
func Debugw(msg string, keysAndValues ...any) { get().Debugw(msg, keysAndValues...) }

// Errorw logs an error message with structured key/value pairs
func Errorw(msg string, keysAndValues ...any) { get().Errorw(msg, keysAndValues...) }

// NewLogr returns a logr.Logger backed by the global zap logger
func NewLogr() logr.Logger {
	return zapr.NewLogger(Get().WithOptions(zap.AddCallerSkip(-1)))
}

// WithLogger stores l in ctx
func WithLogger(ctx context.Context, l logr.Logger) context.Context {
	return logr.NewContext(ctx, l)
}

// FromContext returns the logger stored in ctx, falling back to the
// global logger
func FromContext(ctx context.Context) logr.Logger {
	if l, err := logr.FromContext(ctx); err == nil {
		return l
	}
	return NewLogr()
}
