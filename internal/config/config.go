package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/pbaille/moodlog/internal/logging"
)

// Config holds all configuration for moodlog
type Config struct {
	Server     ServerConfig      `yaml:"server"`
	Storage    StorageConfig     `yaml:"storage"`
	Classifier ClassifierConfig  `yaml:"classifier"`
	Insights   InsightsConfig    `yaml:"insights"`
	Log        logging.Config    `yaml:"log"`
	Labels     map[string]string `yaml:"labels"` // extra raw label -> canonical mood
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// StorageConfig selects and configures the entry store
type StorageConfig struct {
	Driver string `yaml:"driver"` // "sqlite" or "postgres"
	Path   string `yaml:"path"`   // sqlite database file
	URL    string `yaml:"url"`    // postgres connection string
}

// ClassifierConfig configures the text-classification backend
type ClassifierConfig struct {
	Provider       string `yaml:"provider"` // "huggingface", "anthropic" or "none"
	Model          string `yaml:"model"`
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the classifier request timeout.
func (c ClassifierConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// InsightsConfig holds aggregation settings
type InsightsConfig struct {
	WindowDays int    `yaml:"window_days"`
	Timezone   string `yaml:"timezone"`
}

// Location resolves the configured timezone, defaulting to the local zone.
func (c InsightsConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML config file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads the config file, then applies .env and environment
// overrides.
func LoadFromEnv(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("MOODLOG_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("MOODLOG_DATABASE_URL"); v != "" {
		cfg.Storage.Driver = "postgres"
		cfg.Storage.URL = v
	}
	if v := os.Getenv("MOODLOG_TIMEZONE"); v != "" {
		cfg.Insights.Timezone = v
	}
	if cfg.Classifier.APIKey == "" {
		switch cfg.Classifier.Provider {
		case "huggingface":
			cfg.Classifier.APIKey = os.Getenv("HF_API_KEY")
		case "anthropic":
			cfg.Classifier.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"http://localhost:5173"}
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "sqlite"
	}
	if c.Classifier.Provider == "" {
		c.Classifier.Provider = "huggingface"
	}
	if c.Classifier.TimeoutSeconds == 0 {
		c.Classifier.TimeoutSeconds = 30
	}
	if c.Insights.WindowDays == 0 {
		c.Insights.WindowDays = 30
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks settings that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported storage driver %q", c.Storage.Driver)
	}
	if c.Storage.Driver == "postgres" && c.Storage.URL == "" {
		return fmt.Errorf("storage.url is required for postgres")
	}
	switch c.Classifier.Provider {
	case "huggingface", "anthropic", "none":
	default:
		return fmt.Errorf("unsupported classifier provider %q", c.Classifier.Provider)
	}
	if c.Insights.WindowDays < 1 {
		return fmt.Errorf("insights.window_days must be positive")
	}
	if _, err := c.Insights.Location(); err != nil {
		return err
	}
	return nil
}
