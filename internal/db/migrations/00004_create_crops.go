package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateCrops, downCreateCrops)
}

func upCreateCrops(ctx context.Context, tx *sql.Tx) error {
	var ddl string
	switch dialect {
	case "postgres":
		ddl = `CREATE TABLE IF NOT EXISTS crops (
    id            TEXT PRIMARY KEY,
    name          TEXT NOT NULL,
    type          TEXT NOT NULL,
    quantity      INTEGER NOT NULL CHECK (quantity > 0),
    planting_date TIMESTAMPTZ NOT NULL,
    harvest_date  TIMESTAMPTZ,
    description   TEXT,
    status        TEXT NOT NULL DEFAULT 'PLANTED',
    farmer_id     TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    created_at    TIMESTAMPTZ NOT NULL,
    updated_at    TIMESTAMPTZ NOT NULL
)`
	case "mysql":
		ddl = `CREATE TABLE IF NOT EXISTS crops (
    id            VARCHAR(36) PRIMARY KEY,
    name          VARCHAR(255) NOT NULL,
    type          VARCHAR(32) NOT NULL,
    quantity      INT NOT NULL CHECK (quantity > 0),
    planting_date DATETIME(6) NOT NULL,
    harvest_date  DATETIME(6),
    description   TEXT,
    status        VARCHAR(16) NOT NULL DEFAULT 'PLANTED',
    farmer_id     VARCHAR(36) NOT NULL,
    created_at    DATETIME(6) NOT NULL,
    updated_at    DATETIME(6) NOT NULL,
    CONSTRAINT crops_farmer_fk FOREIGN KEY (farmer_id) REFERENCES users (id) ON DELETE CASCADE
)`
	default: // sqlite3
		ddl = `CREATE TABLE IF NOT EXISTS crops (
    id            TEXT PRIMARY KEY,
    name          TEXT NOT NULL,
    type          TEXT NOT NULL,
    quantity      INTEGER NOT NULL CHECK (quantity > 0),
    planting_date TIMESTAMP NOT NULL,
    harvest_date  TIMESTAMP,
    description   TEXT,
    status        TEXT NOT NULL DEFAULT 'PLANTED',
    farmer_id     TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    created_at    TIMESTAMP NOT NULL,
    updated_at    TIMESTAMP NOT NULL
)`
	}
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create crops table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS crops_farmer_idx ON crops (farmer_id)`); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS crops_status_idx ON crops (status)`)
	return err
}

func downCreateCrops(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS crops`)
	return err
}
