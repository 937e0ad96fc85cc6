package testutil

import (
	"path/filepath"
	"testing"

	"fulvo/backend/internal/database"
	"fulvo/backend/internal/repository"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewTestDB creates a temporary SQLite database with the schema applied.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_foreign_keys=on&_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), database.Config(zerolog.Nop()))
	if err != nil {
		t.Fatalf("create test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// NewStore wraps NewTestDB in a repository store.
func NewStore(t *testing.T) *repository.Store {
	t.Helper()
	return repository.New(NewTestDB(t))
}
