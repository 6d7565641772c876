/*
Package config handles loading and saving arise configuration.

Configuration is stored in ~/.arise.yaml. Every field has a default, so a
missing file is not an error for LoadOrDefault.

Schema:
  store:
    path: ~/.arise/arise.db
    enabled: true
    query_timeout: 5s
  server:
    addr: ":5000"
  ai:
    model: gpt-4.1
    base_url: ""
    api_key_env: OPENAI_API_KEY
    requests_per_minute: 30
    timeout: 60s
  log:
    level: info
    development: false

Environment overrides: ARISE_DB, ARISE_ADDR, ARISE_LOG_LEVEL.
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config represents the root configuration structure.
type Config struct {
	Store  StoreConfig  `yaml:"store"`
	Server ServerConfig `yaml:"server"`
	AI     AIConfig     `yaml:"ai"`
	Log    LogConfig    `yaml:"log"`
}

// StoreConfig configures the SQLite log store.
type StoreConfig struct {
	// Path is the database file. "~" expands to the home directory.
	Path string `yaml:"path" validate:"required_if=Enabled true"`

	// Enabled turns the live store on. When false every read is synthetic.
	Enabled bool `yaml:"enabled"`

	// QueryTimeout bounds each store call.
	QueryTimeout time.Duration `yaml:"query_timeout" validate:"gt=0"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr string `yaml:"addr" validate:"required"`
}

// AIConfig configures the question-answering collaborator.
type AIConfig struct {
	Model string `yaml:"model" validate:"required"`

	// BaseURL points at any OpenAI-compatible endpoint; empty means OpenAI.
	BaseURL string `yaml:"base_url,omitempty" validate:"omitempty,url"`

	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string `yaml:"api_key_env" validate:"required"`

	RequestsPerMinute int           `yaml:"requests_per_minute" validate:"gte=0"`
	Timeout           time.Duration `yaml:"timeout" validate:"gt=0"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// APIKey resolves the collaborator API key from the environment.
func (c AIConfig) APIKey() string {
	return os.Getenv(c.APIKeyEnv)
}

// NewConfig creates a configuration populated with defaults.
func NewConfig() *Config {
	dbPath := "arise.db"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".arise", "arise.db")
	}

	return &Config{
		Store: StoreConfig{
			Path:         dbPath,
			Enabled:      true,
			QueryTimeout: 5 * time.Second,
		},
		Server: ServerConfig{Addr: ":5000"},
		AI: AIConfig{
			Model:             "gpt-4.1",
			APIKeyEnv:         "OPENAI_API_KEY",
			RequestsPerMinute: 30,
			Timeout:           60 * time.Second,
		},
		Log: LogConfig{Level: "info"},
	}
}

// GetDefaultConfigPath returns the path to ~/.arise.yaml
func GetDefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".arise.yaml"), nil
}

// Load reads the configuration from the default path.
func Load() (*Config, error) {
	configPath, err := GetDefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadOrDefault reads path (the default path when empty), falling back to
// defaults when the file does not exist. Environment overrides are applied
// and the result is validated.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		p, err := GetDefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		var notFound *ConfigNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		cfg = NewConfig()
	}

	ApplyEnv(cfg, os.Getenv)
	cfg.Store.Path = expandHome(cfg.Store.Path)

	if err := Validate(cfg); err != nil {
		return nil, &InvalidConfigError{
			Path:    path,
			Message: err.Error(),
			Hint:    "Fix the listed fields or run 'arise config init --force' to reset",
		}
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables read via getenv.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv("ARISE_DB"); v != "" {
		cfg.Store.Path = v
		cfg.Store.Enabled = true
	}
	if v := getenv("ARISE_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := getenv("ARISE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
