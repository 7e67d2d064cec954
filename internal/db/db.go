// Package db opens the embedded user database.
package db

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/authvault/authvault/internal/config"
	"github.com/authvault/authvault/internal/db/models"
)

// Open connects to the embedded SQLite database and migrates the schema.
func Open(cfg config.Storage) (*gorm.DB, error) {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = ":memory:"
	}

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open user database: %w", err)
	}

	// An in-memory DSN gives every pooled connection its own database, so
	// the pool must stay at a single connection.
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}

	sqlDB.SetMaxOpenConns(1)

	if err := gdb.AutoMigrate(&models.User{}); err != nil {
		return nil, fmt.Errorf("failed to migrate user database: %w", err)
	}

	return gdb, nil
}
