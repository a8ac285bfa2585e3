package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

const (
	EnvClientID     = "RECENTDRIVE_CLIENT_ID"
	EnvClientSecret = "RECENTDRIVE_CLIENT_SECRET"

	defaultRequestTimeout = 30 * time.Second
	defaultLoginTimeout   = 2 * time.Minute
)

type Config struct {
	ClientID       string `yaml:"client_id"`
	ClientSecret   string `yaml:"client_secret"`
	Endpoint       string `yaml:"endpoint"`
	RequestTimeout string `yaml:"request_timeout"`
	LoginTimeout   string `yaml:"login_timeout"`
	LogLevel       string `yaml:"log_level"`
}

// OAuthClientID returns the configured client id, falling back to the env var.
func (c *Config) OAuthClientID() string {
	if c.ClientID != "" {
		return c.ClientID
	}
	return os.Getenv(EnvClientID)
}

func (c *Config) OAuthClientSecret() string {
	if c.ClientSecret != "" {
		return c.ClientSecret
	}
	return os.Getenv(EnvClientSecret)
}

// OAuthConfigured reports whether a client id is available.
func (c *Config) OAuthConfigured() bool {
	return c.OAuthClientID() != ""
}

func (c *Config) RequestTimeoutDuration() time.Duration {
	return parseDuration(c.RequestTimeout, defaultRequestTimeout)
}

func (c *Config) LoginTimeoutDuration() time.Duration {
	return parseDuration(c.LoginTimeout, defaultLoginTimeout)
}

// Level returns the zerolog level, defaulting to info.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "recentdrive", "config.yaml")
}

func CachePath() string {
	return filepath.Join(xdg.CacheHome, "recentdrive", "recentdrive.db")
}

func LogPath() string {
	return filepath.Join(xdg.StateHome, "recentdrive", "recentdrive.log")
}

// LoadEnv reads a .env file from the working directory if one exists.
func LoadEnv() error {
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load()
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Write defaults to config path on first run; failure is not fatal.
			_ = writeDefaults(path)
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Keys missing from the user's file keep their embedded defaults.
	cfg := *defaults
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	if cfg.Endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}
	u, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("endpoint scheme must be http or https, got %q", u.Scheme)
	}
	for name, v := range map[string]string{"request_timeout": cfg.RequestTimeout, "login_timeout": cfg.LoginTimeout} {
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, v)
		}
	}
	if cfg.LogLevel != "" {
		if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
			return fmt.Errorf("log_level: %w", err)
		}
	}
	return nil
}
