package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/kutbudev/tracker/internal/config"
	"github.com/kutbudev/tracker/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database wraps the gorm connection
type Database struct {
	DB *gorm.DB
}

// sqlite begins every transaction IMMEDIATE so the read-check-write in
// start/stop is serialized against other processes.
const sqliteParams = "_foreign_keys=on&_txlock=immediate&_busy_timeout=5000"

// partial indexes AutoMigrate cannot express
var constraints = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_entries_single_running ON entries ((end_time IS NULL)) WHERE end_time IS NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_tasks_single_default ON tasks (project_id) WHERE is_default`,
}

// NewDatabase opens the database described by cfg
func NewDatabase(cfg *config.Config) (*Database, error) {
	switch cfg.Database.Driver {
	case "postgres":
		dsn, err := cfg.DatabaseDSN()
		if err != nil {
			return nil, fmt.Errorf("postgres DSN is not configured: %w", err)
		}
		return Open(postgres.Open(dsn), cfg.Debug)
	case "sqlite", "":
		return OpenSQLite(cfg.DatabasePath(), cfg.Debug)
	default:
		return nil, models.InvalidConfiguration("database.driver", cfg.Database.Driver, "unsupported driver")
	}
}

// OpenSQLite opens (creating if needed) a sqlite database file
func OpenSQLite(path string, debug bool) (*Database, error) {
	return Open(sqlite.Open(fmt.Sprintf("file:%s?%s", path, sqliteParams)), debug)
}

// Open connects through the given dialector
func Open(dialector gorm.Dialector, debug bool) (*Database, error) {
	var logLevel logger.LogLevel
	if debug {
		logLevel = logger.Info
	} else {
		logLevel = logger.Silent
	}

	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	conn, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get SQL DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	if debug {
		log.Printf("Database connection established (%s)", dialector.Name())
	}
	return &Database{DB: conn}, nil
}

// Migrate creates or updates the schema
func (d *Database) Migrate() error {
	if err := d.DB.AutoMigrate(
		&models.Project{},
		&models.Task{},
		&models.Tag{},
		&models.Entry{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	for _, stmt := range constraints {
		if err := d.DB.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

// Session returns a handle bound to ctx for reads outside a transaction.
func (d *Database) Session(ctx context.Context) *gorm.DB {
	return d.DB.WithContext(ctx)
}

// Transaction runs fn atomically. Errors that are not already classified
// come back as a storage error.
func (d *Database) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	err := d.DB.WithContext(ctx).Transaction(fn)
	if err != nil && models.KindName(err) == "" {
		return models.StorageError(err)
	}
	return err
}

// Close closes the underlying connection pool
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Health pings the database
func (d *Database) Health() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
