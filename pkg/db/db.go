package db

import (
	"fmt"
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vrulab/vru-validation/pkg/model"
)

const sqlitePrefix = "sqlite:"

// Config holds database connection configuration
type Config struct {
	// URL is the database connection URL (defaults to DATABASE_URL env var)
	URL string
	// AutoMigrate creates the schema from the models on SQLite databases.
	// PostgreSQL schemas are owned by the SQL migrations.
	AutoMigrate bool
}

// Connect establishes a database connection.
// If no URL is provided, it reads from DATABASE_URL environment variable.
func Connect(cfg Config) (*gorm.DB, error) {
	dbURL := cfg.URL
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	// Default to silent logging unless VRU_LOG_LEVEL=debug is set
	logMode := logger.Silent
	if os.Getenv("VRU_LOG_LEVEL") == "debug" {
		logMode = logger.Info
	}
	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logMode),
		TranslateError: true,
	}

	if IsSQLite(dbURL) {
		db, err := gorm.Open(sqlite.Open(SQLitePath(dbURL)), gormConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		// sqlite serialises writers; one connection avoids "database is locked"
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)

		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		if cfg.AutoMigrate {
			if err := db.AutoMigrate(model.All()...); err != nil {
				return nil, fmt.Errorf("failed to migrate sqlite schema: %w", err)
			}
		}
		return db, nil
	}

	db, err := gorm.Open(
		postgres.New(postgres.Config{
			DSN:                  dbURL,
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		}),
		gormConfig,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// URL returns the database URL from environment.
// Returns empty string if DATABASE_URL is not set.
func URL() string {
	return os.Getenv("DATABASE_URL")
}

// IsSQLite reports whether dbURL selects the SQLite driver
func IsSQLite(dbURL string) bool {
	return strings.HasPrefix(dbURL, sqlitePrefix) || strings.HasPrefix(dbURL, "file:")
}

// SQLitePath strips the sqlite: scheme, leaving a path or file: URI
func SQLitePath(dbURL string) string {
	path := strings.TrimPrefix(dbURL, sqlitePrefix)
	return strings.TrimPrefix(path, "//")
}
