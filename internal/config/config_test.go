package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `{
		"port": 8080,
		"backend_url": "http://localhost:9090",
		"provider": "gemini",
		"model": "gemini-2.0-flash",
		"use_browser": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "http://localhost:9090", cfg.BackendURL)
	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, "gemini-2.0-flash", cfg.Model)
	assert.True(t, cfg.UseBrowser)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := writeConfig(t, "{not valid json")
	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestFromEnvFillsOnlyEmptyFields(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://env-backend:9090")
	t.Setenv("GEMINI_API_KEY", "env-gemini-key")

	cfg := Config{BackendURL: "http://file-backend:8080"}
	cfg.FromEnv()

	assert.Equal(t, "http://file-backend:8080", cfg.BackendURL, "file value wins over env")
	assert.Equal(t, "env-gemini-key", cfg.GeminiAPIKey)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "backend url set", cfg: Config{BackendURL: "http://localhost:9090"}},
		{name: "gemini key set", cfg: Config{GeminiAPIKey: "key"}},
		{name: "no backend at all", cfg: Config{}, wantErr: true},
		{name: "port out of range", cfg: Config{Port: 70000, GeminiAPIKey: "key"}, wantErr: true},
		{name: "negative port", cfg: Config{Port: -1, GeminiAPIKey: "key"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{Provider: "OpenAI"}
	defaults := Config{Port: 8080, Provider: "gemini", Model: "gemini-2.0-flash", DatabaseURL: "postgres://x"}

	merged := cfg.MergeWithDefaults(defaults)

	assert.Equal(t, 8080, merged.Port)
	assert.Equal(t, "OpenAI", merged.Provider, "explicit values are kept")
	assert.Equal(t, "gemini-2.0-flash", merged.Model)
	assert.Equal(t, "postgres://x", merged.DatabaseURL)
}

func TestMergeWithDefaultsChains(t *testing.T) {
	// The CLI layers flags over the config file over built-in defaults.
	flags := Config{Provider: "OpenAI"}
	file := Config{Model: "gpt-4o", BackendURL: "http://localhost:9090"}
	builtin := Config{Port: 8080, Provider: "gemini"}

	merged := flags.MergeWithDefaults(file)
	merged = merged.MergeWithDefaults(builtin)

	assert.Equal(t, "OpenAI", merged.Provider, "flag wins over every layer")
	assert.Equal(t, "gpt-4o", merged.Model, "file wins over built-ins")
	assert.Equal(t, "http://localhost:9090", merged.BackendURL)
	assert.Equal(t, 8080, merged.Port, "built-in fills the rest")
}
