package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ksyq12/rproxy/internal/model"
)

// Config represents the application configuration
type Config struct {
	ServerID      int64           `yaml:"server_id" env:"SERVER_ID"`
	Paths         PathsConfig     `yaml:"paths" envPrefix:"PATHS_"`
	ACMELiveDir   string          `yaml:"acme_live_dir" env:"ACME_LIVE_DIR"`
	ReloadCommand []string        `yaml:"reload_command" env:"RELOAD_COMMAND" envSeparator:" " validate:"min=1,dive,required"`
	Template      TemplateConfig  `yaml:"template" envPrefix:"TEMPLATE_"`
	Backend       BackendConfig   `yaml:"backend" envPrefix:"BACKEND_"`
	Store         StoreConfig     `yaml:"store" envPrefix:"STORE_"`
	Web           model.WebConfig `yaml:"web" envPrefix:"WEB_"`
	Log           LogConfig       `yaml:"log" envPrefix:"LOG_"`
}

// PathsConfig holds the nginx vhost directories
type PathsConfig struct {
	Available string `yaml:"available" env:"AVAILABLE"`
	Enabled   string `yaml:"enabled" env:"ENABLED"`
}

// TemplateConfig selects the vhost template
type TemplateConfig struct {
	Name string `yaml:"name" env:"NAME"`
	Dir  string `yaml:"dir,omitempty" env:"DIR"` // custom templates override embedded ones
}

// BackendConfig holds the ports of the proxied web server
type BackendConfig struct {
	HTTPPort  int `yaml:"http_port" env:"HTTP_PORT" validate:"gt=0,lte=65535"`
	HTTPSPort int `yaml:"https_port" env:"HTTPS_PORT" validate:"gt=0,lte=65535"`
}

// Store drivers
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
)

// StoreConfig selects where domain records are read from
type StoreConfig struct {
	Driver string `yaml:"driver" env:"DRIVER" validate:"oneof=file postgres"`
	DSN    string `yaml:"dsn,omitempty" env:"DSN" validate:"required_if=Driver postgres"`
	Path   string `yaml:"path,omitempty" env:"PATH"`
}

// LogConfig configures the logger
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT" validate:"omitempty,oneof=console json"`
}

// EnvPrefix prefixes every environment override
const EnvPrefix = "RPROXY_"

// configDir is the default config directory
const configDir = ".config/rproxy"
const configFile = "config.yaml"

// DefaultTemplate is the embedded reverse proxy vhost template
const DefaultTemplate = "nginx_reverse_proxy.vhost.conf"

// New creates a new Config with default values
func New() *Config {
	return &Config{
		ACMELiveDir:   "/etc/letsencrypt/live",
		ReloadCommand: []string{"service", "nginx", "reload"},
		Template:      TemplateConfig{Name: DefaultTemplate},
		Backend:       BackendConfig{HTTPPort: 82, HTTPSPort: 4443},
		Store:         StoreConfig{Driver: StoreFile},
		Web: model.WebConfig{
			WebsiteBasedir: "/var/www",
		},
		Log: LogConfig{Level: "warn", Format: "console"},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, configDir), nil
}

// ConfigPath returns the config file path
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Load reads the config from the default path
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads the config from path, then applies .env and RPROXY_*
// environment overrides. A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := New()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("invalid config: %w", err)
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "oneof":
		return fmt.Errorf("invalid %s %q (available: %s)", fe.Namespace(), fe.Value(), fe.Param())
	case "required_if":
		return fmt.Errorf("%s is required for the %s store", fe.Namespace(), StorePostgres)
	case "min":
		return fmt.Errorf("%s cannot be empty", fe.Namespace())
	default:
		return fmt.Errorf("invalid %s: failed %q check", fe.Namespace(), fe.Tag())
	}
}

// Save writes the config to path
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
