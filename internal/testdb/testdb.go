// Package testdb opens throwaway in-memory databases for tests.
package testdb

import (
	"fmt"
	"regexp"
	"sync/atomic"
	"testing"

	"github.com/tillworks/tillpoint/app/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var seq atomic.Int64

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// Open returns a migrated in-memory SQLite database unique to the calling
// test. cache=shared keeps the database alive across the pool's connections
// for the duration of the test.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	name := unsafeChars.ReplaceAllString(t.Name(), "_")
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return db
}
