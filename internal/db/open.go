package db

import (
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the database selected by the DSN. Postgres-style DSNs
// (postgres:// URLs or key=value connection strings) use the pgx-backed
// driver; everything else is treated as a SQLite path.
func Open(dsn string) (*gorm.DB, error) {
	trimmed := strings.TrimSpace(dsn)
	if trimmed == "" {
		return nil, fmt.Errorf("db: empty dsn")
	}

	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	var dialector gorm.Dialector
	if isPostgresDSN(trimmed) {
		dialector = postgres.Open(trimmed)
	} else {
		dialector = sqlite.Open(trimmed)
	}

	conn, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("db: open: %w", err)
	}
	return conn, nil
}

// isPostgresDSN reports whether the DSN targets PostgreSQL.
func isPostgresDSN(dsn string) bool {
	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return true
	}
	return strings.Contains(lower, "host=") && strings.Contains(lower, "dbname=")
}
