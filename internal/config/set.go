package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/kutbudev/tracker/internal/models"
	"github.com/spf13/viper"
)

type validator func(value string) (interface{}, error)

var validators = map[string]validator{
	"format": oneOf("table", "json", "markdown"),
	"timezone": func(value string) (interface{}, error) {
		if _, err := time.LoadLocation(value); err != nil {
			return nil, errors.New("unknown timezone")
		}
		return value, nil
	},
	"debug":              parseBool,
	"database.driver":    oneOf("sqlite", "postgres"),
	"database.path":      nonEmpty,
	"database.test_path": nonEmpty,
	"database.use_test":  parseBool,
	"database.dsn":       nonEmpty,
	"server.host":        nonEmpty,
	"server.port": func(value string) (interface{}, error) {
		port, err := strconv.Atoi(value)
		if err != nil || port < 1 || port > 65535 {
			return nil, errors.New("expected a port between 1 and 65535")
		}
		return port, nil
	},
	"server.url": func(value string) (interface{}, error) {
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, errors.New("expected an http(s) URL")
		}
		return value, nil
	},
}

func oneOf(choices ...string) validator {
	return func(value string) (interface{}, error) {
		for _, c := range choices {
			if value == c {
				return value, nil
			}
		}
		return nil, fmt.Errorf("expected one of %v", choices)
	}
}

func parseBool(value string) (interface{}, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return nil, errors.New("expected true or false")
	}
	return b, nil
}

func nonEmpty(value string) (interface{}, error) {
	if value == "" {
		return nil, errors.New("value must not be empty")
	}
	return value, nil
}

// Validate checks a key/value pair without persisting it.
func Validate(key, value string) (interface{}, error) {
	check, ok := validators[key]
	if !ok {
		return nil, models.InvalidConfiguration(key, value, "unknown key")
	}
	typed, err := check(value)
	if err != nil {
		return nil, models.InvalidConfiguration(key, value, err.Error())
	}
	return typed, nil
}

// Set validates key=value and writes it to the config file at path.
// database.dsn goes to the system keyring when one is available.
func Set(path, key, value string) error {
	typed, err := Validate(key, value)
	if err != nil {
		return err
	}

	if key == "database.dsn" {
		if err := storeSecret(dsnSecret, value); err == nil {
			return nil
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	v.Set(key, typed)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create config directory: %w", err)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("could not write config: %w", err)
	}
	return nil
}

// Keys lists the settable configuration keys.
func Keys() []string {
	keys := make([]string, 0, len(validators))
	for k := range validators {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
