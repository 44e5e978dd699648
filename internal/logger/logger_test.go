package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("loud"))
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "ainews.log")

	log, err := New(Config{Level: "info", Format: "json", File: path})
	require.NoError(t, err)
	log.With(String("source", "BBC Innovation")).Info("fetch finished", Int("inserted", 3))
	log.Debug("hidden")
	_ = log.Sync()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"fetch finished"`)
	assert.Contains(t, string(b), `"source":"BBC Innovation"`)
	assert.NotContains(t, string(b), "hidden")
}

func TestFromZapObserver(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	log := FromZap(zap.New(core))

	log.Info("ignored")
	log.Warn("skipped article", Error(errors.New("rate limited")))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "skipped article", entry.Message)
	assert.Equal(t, "rate limited", entry.ContextMap()["error"])
}

func TestNopLogger(t *testing.T) {
	log := NewNop()
	log.With(String("k", "v")).Error("nothing")
	assert.NoError(t, log.Sync())
}
