package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T, level zapcore.Level) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(level)
	prev := current()
	SetLogger(zap.New(core, zap.AddCaller()))
	t.Cleanup(func() {
		mu.Lock()
		sugar = prev
		mu.Unlock()
	})
	return logs
}

func TestPrintfHelpers(t *testing.T) {
	logs := observe(t, zapcore.InfoLevel)

	Info("loaded %d products", 6)
	Warn("slow %s", "query")
	Debug("hidden")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "loaded 6 products", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Contains(t, entries[0].Caller.File, "logger_test.go")
}

func TestWithCarriesFields(t *testing.T) {
	logs := observe(t, zapcore.DebugLevel)

	With("user", "u1", "conversation", "c1").Warnf("retry in %s", "6s")

	entries := logs.FilterField(zap.String("user", "u1")).All()
	require.Len(t, entries, 1)
	assert.Equal(t, "retry in 6s", entries[0].Message)
	assert.Equal(t, "c1", entries[0].ContextMap()["conversation"])
	assert.Contains(t, entries[0].Caller.File, "logger_test.go")
}
