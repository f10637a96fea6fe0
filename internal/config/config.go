package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configDir      = ".tracker"
	configFileName = "config.yaml"
	envPrefix      = "TRACKER"
)

// Config represents the application configuration
type Config struct {
	Format   string         `mapstructure:"format"`
	Timezone string         `mapstructure:"timezone"`
	Debug    bool           `mapstructure:"debug"`
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`

	path string
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Path     string `mapstructure:"path"`
	TestPath string `mapstructure:"test_path"`
	UseTest  bool   `mapstructure:"use_test"`
	DSN      string `mapstructure:"dsn"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	URL  string `mapstructure:"url"`
}

// Path returns the config file path, honoring TRACKER_CONFIG.
func Path() (string, error) {
	if p := os.Getenv(envPrefix + "_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDir, configFileName), nil
}

// Load loads configuration from .env, the config file and TRACKER_* variables
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads configuration from the given file; a missing file yields defaults.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, filepath.Dir(path))

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.path = path
	return &cfg, nil
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault("format", "table")
	v.SetDefault("timezone", "Local")
	v.SetDefault("debug", false)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", filepath.Join(dir, "tracker.db"))
	v.SetDefault("database.test_path", filepath.Join(dir, "tracker-test.db"))
	v.SetDefault("database.use_test", false)
	v.SetDefault("database.dsn", "")
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.url", "http://127.0.0.1:5000")
}

// File returns the path the configuration was loaded from.
func (c *Config) File() string {
	return c.path
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// DatabasePath picks the test or production database file.
func (c *Config) DatabasePath() string {
	if c.Database.UseTest {
		return c.Database.TestPath
	}
	return c.Database.Path
}

// DatabaseDSN returns the postgres DSN from the config file or, failing that, the keyring.
func (c *Config) DatabaseDSN() (string, error) {
	if c.Database.DSN != "" {
		return c.Database.DSN, nil
	}
	return loadSecret(dsnSecret)
}

// ServerAddr is the host:port the HTTP service listens on.
func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Setting is one key/value pair as shown by `config list`.
type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Settings lists every configurable key with its effective value.
func (c *Config) Settings() []Setting {
	dsn := c.Database.DSN
	if dsn == "" {
		if _, err := loadSecret(dsnSecret); err == nil {
			dsn = "(keyring)"
		}
	}
	return []Setting{
		{"format", c.Format},
		{"timezone", c.Timezone},
		{"debug", strconv.FormatBool(c.Debug)},
		{"database.driver", c.Database.Driver},
		{"database.path", c.Database.Path},
		{"database.test_path", c.Database.TestPath},
		{"database.use_test", strconv.FormatBool(c.Database.UseTest)},
		{"database.dsn", dsn},
		{"server.host", c.Server.Host},
		{"server.port", strconv.Itoa(c.Server.Port)},
		{"server.url", c.Server.URL},
	}
}
