package store

import (
	"path/filepath"
	"testing"

	"github.com/mentoroid/user-service/internal/db"
	"gorm.io/gorm"
)

// openTestDB opens a throwaway SQLite database with migrations applied.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "store.db")
	conn, errOpen := db.Open(dsn)
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return conn
}
