// Package testdb opens migrated in-memory SQLite databases for package tests.
package testdb

import (
	"fmt"
	"testing"

	"gabber/annotator/internal/db"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open returns a private database that lives as long as the test
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), db.Config())
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

// SQLX exposes the same pool through sqlx
func SQLX(t testing.TB, gdb *gorm.DB) *sqlx.DB {
	t.Helper()

	sdb, err := db.WrapGorm(gdb, "sqlite3")
	if err != nil {
		t.Fatalf("Failed to wrap database: %v", err)
	}
	return sdb
}
