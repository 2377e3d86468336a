package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateProfiles, downCreateProfiles)
}

func upCreateProfiles(ctx context.Context, tx *sql.Tx) error {
	var ddl string
	switch dialect {
	case "postgres":
		ddl = `CREATE TABLE IF NOT EXISTS profiles (
    id           TEXT PRIMARY KEY,
    user_id      TEXT NOT NULL UNIQUE REFERENCES users (id) ON DELETE CASCADE,
    full_name    TEXT NOT NULL,
    location     TEXT,
    contact_info TEXT,
    avatar       TEXT
)`
	case "mysql":
		ddl = `CREATE TABLE IF NOT EXISTS profiles (
    id           VARCHAR(36) PRIMARY KEY,
    user_id      VARCHAR(36) NOT NULL UNIQUE,
    full_name    VARCHAR(255) NOT NULL,
    location     VARCHAR(255),
    contact_info VARCHAR(255),
    avatar       VARCHAR(512),
    CONSTRAINT profiles_user_fk FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
)`
	default: // sqlite3
		ddl = `CREATE TABLE IF NOT EXISTS profiles (
    id           TEXT PRIMARY KEY,
    user_id      TEXT NOT NULL UNIQUE REFERENCES users (id) ON DELETE CASCADE,
    full_name    TEXT NOT NULL,
    location     TEXT,
    contact_info TEXT,
    avatar       TEXT
)`
	}
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create profiles table: %w", err)
	}
	return nil
}

func downCreateProfiles(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS profiles`)
	return err
}
