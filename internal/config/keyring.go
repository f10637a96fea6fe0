package config

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "tracker"
	dsnSecret      = "database.dsn"
)

// ErrNoSecret is returned when the keyring holds no value for a key.
var ErrNoSecret = errors.New("secret not found")

func storeSecret(key, value string) error {
	if err := keyring.Set(keyringService, key, value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", key, err)
	}
	return nil
}

func loadSecret(key string) (string, error) {
	value, err := keyring.Get(keyringService, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoSecret
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s from keyring: %w", key, err)
	}
	return value, nil
}

// ClearSecrets removes every value this program stored in the keyring.
func ClearSecrets() error {
	err := keyring.Delete(keyringService, dsnSecret)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}
