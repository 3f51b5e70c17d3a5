package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateStoresTable, downCreateStoresTable)
}

func upCreateStoresTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS stores (
			id         CHAR(36)     NOT NULL,
			name       VARCHAR(60)  NOT NULL,
			email      VARCHAR(255) NOT NULL,
			address    VARCHAR(400) NOT NULL,
			created_at DATETIME(3)  NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
			PRIMARY KEY (id),
			UNIQUE KEY uq_stores_email (email),
			KEY idx_stores_created_at (created_at)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`)
	return err
}

func downCreateStoresTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS stores`)
	return err
}
