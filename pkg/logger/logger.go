package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu    sync.RWMutex
	sugar *zap.SugaredLogger
)

func init() {
	sugar = build(os.Getenv("ENVIRONMENT")).Sugar()
}

func build(environment string) *zap.Logger {
	var cfg zap.Config
	if environment == "development" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "time"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// Configure rebuilds the package logger for the given environment.
func Configure(environment string) {
	l := build(environment).Sugar()
	mu.Lock()
	sugar = l
	mu.Unlock()
}

// SetLogger swaps the underlying logger, mostly for tests.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	sugar = l.WithOptions(zap.AddCallerSkip(1)).Sugar()
	mu.Unlock()
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

func Info(format string, v ...interface{}) {
	current().Infof(format, v...)
}

func Error(format string, v ...interface{}) {
	current().Errorf(format, v...)
}

func Debug(format string, v ...interface{}) {
	current().Debugf(format, v...)
}

func Warn(format string, v ...interface{}) {
	current().Warnf(format, v...)
}

// With returns a child logger carrying structured fields. Its caller is
// reported as the code calling the child, not this package.
func With(keysAndValues ...interface{}) *zap.SugaredLogger {
	return current().WithOptions(zap.AddCallerSkip(-1)).With(keysAndValues...)
}

func Sync() {
	_ = current().Sync()
}
