package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_FileOutput(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "naia.log")

	l, err := New(Config{Level: "debug", File: logFile})
	require.NoError(t, err)
	defer l.Close()

	l.GetZerolog().Info().Str("key", "value").Msg("test entry")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "test entry")
	assert.Contains(t, string(data), `"key":"value"`)
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	l, err := New(Config{Level: "nope"})
	require.NoError(t, err)
	defer l.Close()

	assert.Equal(t, "info", l.GetZerolog().GetLevel().String())
}

func TestSetLevel(t *testing.T) {
	l, err := New(Config{Level: "info"})
	require.NoError(t, err)
	defer l.Close()

	require.NoError(t, l.SetLevel("debug"))
	assert.Equal(t, "debug", l.GetZerolog().GetLevel().String())

	assert.Error(t, l.SetLevel("shout"))
}

func TestGetZerologLevelMethods(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "naia.log")

	l, err := New(Config{Level: "info", File: logFile})
	require.NoError(t, err)
	defer l.Close()

	zl := l.GetZerolog()
	zl.Warn().Msg("direct warn call")

	require.NoError(t, l.SetLevel("error"))
	assert.Equal(t, "error", zl.GetLevel().String(), "held reference follows level changes")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "direct warn call")
}

func TestNew_RedactionInFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "naia.log")

	l, err := New(Config{Level: "info", File: logFile, Redaction: true})
	require.NoError(t, err)
	defer l.Close()

	l.GetZerolog().Info().Msg("key is sk-abcdefghijklmnopqrstuvwxyz123456")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "sk-abcdefghijklmnopqrstuvwxyz123456")
	assert.Contains(t, string(data), "[REDACTED]")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.True(t, cfg.Console)
	assert.True(t, cfg.Redaction)
}
