package db

import (
	"fmt"

	"github.com/mentoroid/user-service/internal/models"
	"gorm.io/gorm"
)

// Migrate runs database migrations for the current dialect.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	switch DialectName(conn) {
	case DialectSQLite:
		return migrate(conn, sqliteIndexes)
	case DialectPostgres, "":
		return migrate(conn, postgresIndexes)
	default:
		return fmt.Errorf("db: unsupported dialect: %s", DialectName(conn))
	}
}

// migrate auto-migrates the schema and applies the dialect's index DDL.
func migrate(conn *gorm.DB, ddls []ddl) error {
	if errAutoMigrate := conn.AutoMigrate(
		&models.User{},
		&models.PendingOTP{},
		&models.Profile{},
		&models.ChatMessage{},
	); errAutoMigrate != nil {
		return fmt.Errorf("db: migrate: %w", errAutoMigrate)
	}
	for _, item := range ddls {
		if errDDL := conn.Exec(item.sql).Error; errDDL != nil {
			return fmt.Errorf("db: create index %s: %w", item.name, errDDL)
		}
	}
	return nil
}

// ddl defines an index or DDL statement to apply.
type ddl struct {
	name string // Human-readable name for error reporting.
	sql  string // SQL to execute.
}

// Shared index set; expiry index lets the sweeper delete expired ledger
// rows without a table scan.
var commonIndexes = []ddl{
	{
		name: "idx_pending_otps_expires_at",
		sql: `
			CREATE INDEX IF NOT EXISTS idx_pending_otps_expires_at
			ON pending_otps (expires_at)
		`,
	},
	{
		name: "idx_chat_messages_user_created",
		sql: `
			CREATE INDEX IF NOT EXISTS idx_chat_messages_user_created
			ON chat_messages (user_id, created_at ASC)
		`,
	},
}

var postgresIndexes = append([]ddl{
	{
		name: "idx_users_email_lower",
		sql: `
			CREATE INDEX IF NOT EXISTS idx_users_email_lower
			ON users (LOWER(email))
		`,
	},
}, commonIndexes...)

var sqliteIndexes = commonIndexes
