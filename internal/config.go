package internal

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the caller-supplied credentials and service endpoint. The
// API key may also arrive via the PAGEFORGE_API_KEY environment variable,
// which takes precedence over the file.
type Config struct {
	APIKey       string `yaml:"api_key"`
	Model        string `yaml:"model"`
	BaseURL      string `yaml:"base_url"`
	SyncInterval int    `yaml:"sync_interval_ms"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Model:        "gemini-1.5-pro-002",
		BaseURL:      "http://127.0.0.1:8391",
		SyncInterval: 1000,
	}
}

// LoadConfig reads the YAML config at path; a missing file yields defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = DefaultConfigPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return cfg, err
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if key := os.Getenv("PAGEFORGE_API_KEY"); key != "" {
		cfg.APIKey = key
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-pro-002"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://127.0.0.1:8391"
	}
	if cfg.SyncInterval <= 0 {
		cfg.SyncInterval = 1000
	}
	return cfg, nil
}

// SaveConfig writes the config as YAML, creating parent directories.
func SaveConfig(cfg Config, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}
	if path == "" {
		return errors.New("no config path available")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// DefaultConfigPath returns the per-user config location.
func DefaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "pageforge", "config.yml")
}

// DefaultStorePath returns the per-user database location.
func DefaultStorePath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, "pageforge")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "chats.db"), nil
}
