package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoader(t *testing.T) {
	loader := NewLoader("/path/to/naia.json")
	assert.NotNil(t, loader)
	assert.Equal(t, "/path/to/naia.json", loader.configPath)
}

func TestLoaderLoad(t *testing.T) {
	t.Run("load default config when file doesn't exist", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "nonexistent.json")

		loader := NewLoader(configPath)
		cfg, err := loader.Load()

		require.NoError(t, err)
		assert.NotNil(t, cfg)
		assert.Equal(t, "gemini", cfg.Agent.Provider)
		assert.Equal(t, 50, cfg.Session.MaxExchanges)
		assert.Equal(t, 10, cfg.HTTP.TimeoutSeconds)
	})

	t.Run("load config from file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "naia.json")

		testConfig := `{
			"agent": {
				"provider": "openai",
				"model": "gpt-4o-mini",
				"temperature": 0.5
			},
			"session": {
				"max_exchanges": 20
			}
		}`
		err := os.WriteFile(configPath, []byte(testConfig), 0644)
		require.NoError(t, err)

		loader := NewLoader(configPath)
		cfg, err := loader.Load()

		require.NoError(t, err)
		assert.Equal(t, "openai", cfg.Agent.Provider)
		assert.Equal(t, "gpt-4o-mini", cfg.Agent.Model)
		assert.Equal(t, 0.5, cfg.Agent.Temperature)
		assert.Equal(t, 20, cfg.Session.MaxExchanges)

		// Unspecified values keep their defaults
		assert.Equal(t, 4096, cfg.Agent.MaxTokens)
		assert.Equal(t, 5, cfg.Session.ContextWindow)
	})

	t.Run("set default paths", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "naia.json")

		err := os.WriteFile(configPath, []byte(`{"agent":{"provider":"gemini"}}`), 0644)
		require.NoError(t, err)

		loader := NewLoader(configPath)
		cfg, err := loader.Load()

		require.NoError(t, err)
		assert.NotEmpty(t, cfg.DataDir)
		assert.NotEmpty(t, cfg.Logging.File)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "invalid.json")

		err := os.WriteFile(configPath, []byte("invalid json"), 0644)
		require.NoError(t, err)

		loader := NewLoader(configPath)
		cfg, err := loader.Load()

		assert.Error(t, err)
		assert.Nil(t, cfg)
	})
}

func TestResolveAPIKey(t *testing.T) {
	t.Run("returns key from environment", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "AIzaTestKey123")

		cfg := DefaultConfig()
		key, err := cfg.ResolveAPIKey()

		require.NoError(t, err)
		assert.Equal(t, "AIzaTestKey123", key)
	})

	t.Run("missing credential names the env var", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "")

		cfg := DefaultConfig()
		cfg.Agent.Provider = "openai"
		_, err := cfg.ResolveAPIKey()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "OPENAI_API_KEY")
	})

	t.Run("unsupported provider", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Agent.Provider = "mistral"
		_, err := cfg.ResolveAPIKey()

		assert.Error(t, err)
	})
}
