package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kutbudev/tracker/internal/models"
	"github.com/zalando/go-keyring"
)

func TestLoadDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Format != "table" {
		t.Errorf("Format = %q, want table", cfg.Format)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Database.Driver = %q, want sqlite", cfg.Database.Driver)
	}
	if want := filepath.Join(filepath.Dir(path), "tracker.db"); cfg.DatabasePath() != want {
		t.Errorf("DatabasePath() = %q, want %q", cfg.DatabasePath(), want)
	}
	if cfg.ServerAddr() != "127.0.0.1:5000" {
		t.Errorf("ServerAddr() = %q", cfg.ServerAddr())
	}
	if cfg.File() != path {
		t.Errorf("File() = %q, want %q", cfg.File(), path)
	}
}

func TestSetPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if err := Set(path, "format", "json"); err != nil {
		t.Fatalf("Set(format) error = %v", err)
	}
	if err := Set(path, "database.use_test", "true"); err != nil {
		t.Fatalf("Set(database.use_test) error = %v", err)
	}
	if err := Set(path, "timezone", "Europe/Berlin"); err != nil {
		t.Fatalf("Set(timezone) error = %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %q, want json", cfg.Format)
	}
	if !cfg.Database.UseTest {
		t.Error("Database.UseTest = false, want true")
	}
	if cfg.DatabasePath() != cfg.Database.TestPath {
		t.Errorf("DatabasePath() = %q, want test path %q", cfg.DatabasePath(), cfg.Database.TestPath)
	}
	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("Location() error = %v", err)
	}
	want, _ := time.LoadLocation("Europe/Berlin")
	if loc.String() != want.String() {
		t.Errorf("Location() = %v, want %v", loc, want)
	}
}

func TestSetRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	tests := []struct {
		key   string
		value string
	}{
		{"format", "xml"},
		{"timezone", "Mars/Olympus"},
		{"database.driver", "mysql"},
		{"database.use_test", "maybe"},
		{"server.port", "70000"},
		{"server.url", "ftp://example.com"},
		{"no.such.key", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := Set(path, tt.key, tt.value)
			if !errors.Is(err, models.ErrInvalidConfiguration) {
				t.Errorf("Set(%q, %q) error = %v, want ErrInvalidConfiguration", tt.key, tt.value, err)
			}
		})
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("invalid Set() should not create the config file")
	}
}

func TestEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("TRACKER_FORMAT", "json")
	t.Setenv("TRACKER_DATABASE_DRIVER", "postgres")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %q, want json", cfg.Format)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("Database.Driver = %q, want postgres", cfg.Database.Driver)
	}
}

func TestDSNStoredInKeyring(t *testing.T) {
	keyring.MockInit()
	path := filepath.Join(t.TempDir(), "config.yaml")

	dsn := "host=localhost user=tracker password=secret dbname=tracker"
	if err := Set(path, "database.dsn", dsn); err != nil {
		t.Fatalf("Set(database.dsn) error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("DSN should not be written to the config file")
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	got, err := cfg.DatabaseDSN()
	if err != nil {
		t.Fatalf("DatabaseDSN() error = %v", err)
	}
	if got != dsn {
		t.Errorf("DatabaseDSN() = %q, want %q", got, dsn)
	}

	if err := ClearSecrets(); err != nil {
		t.Fatalf("ClearSecrets() error = %v", err)
	}
	if _, err := cfg.DatabaseDSN(); !errors.Is(err, ErrNoSecret) {
		t.Errorf("DatabaseDSN() after clear error = %v, want ErrNoSecret", err)
	}
}

func TestKeys(t *testing.T) {
	keys := Keys()
	if len(keys) != len(validators) {
		t.Fatalf("Keys() returned %d keys, want %d", len(keys), len(validators))
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1] > keys[i] {
			t.Errorf("Keys() not sorted: %q before %q", keys[i-1], keys[i])
		}
	}
}
