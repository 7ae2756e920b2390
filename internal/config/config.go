// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the application configuration that can be loaded from a JSON
// file. All fields are optional; missing values use defaults, environment
// variables or CLI flags.
type Config struct {
	// Server
	Port int `json:"port,omitempty"` // HTTP listen port

	// Backend selection: either a backend service URL or a direct Gemini key.
	BackendURL   string `json:"backend_url,omitempty"`    // resume-studio backend base URL
	BackendKey   string `json:"backend_key,omitempty"`    // bearer token for the backend service
	GeminiAPIKey string `json:"gemini_api_key,omitempty"` // direct-mode Gemini API key

	// Defaults adopted by new sessions.
	Provider string `json:"provider,omitempty"` // initial provider id
	Model    string `json:"model,omitempty"`    // initial model id

	// Behavior
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL (optional persistence)
	UseBrowser  bool   `json:"use_browser,omitempty"`  // headless-browser fallback for posting URLs
	Verbose     bool   `json:"verbose,omitempty"`      // print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv fills empty fields from environment variables.
func (c *Config) FromEnv() {
	if c.BackendURL == "" {
		c.BackendURL = os.Getenv("BACKEND_URL")
	}
	if c.BackendKey == "" {
		c.BackendKey = os.Getenv("BACKEND_KEY")
	}
	if c.GeminiAPIKey == "" {
		c.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be a valid port number, got %d", c.Port)
	}
	if c.BackendURL == "" && c.GeminiAPIKey == "" {
		return fmt.Errorf("config error: either 'backend_url' or 'gemini_api_key' must be set")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.BackendURL == "" {
		result.BackendURL = defaults.BackendURL
	}
	if result.BackendKey == "" {
		result.BackendKey = defaults.BackendKey
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
