package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateRatingsTable, downCreateRatingsTable)
}

func upCreateRatingsTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS ratings (
			id         CHAR(36)    NOT NULL,
			rating     TINYINT     NOT NULL,
			user_id    CHAR(36)    NOT NULL,
			store_id   CHAR(36)    NOT NULL,
			created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
			PRIMARY KEY (id),
			-- a user can rate a store only once
			UNIQUE KEY uq_ratings_user_store (user_id, store_id),
			KEY idx_ratings_store_created (store_id, created_at),
			CONSTRAINT chk_ratings_value CHECK (rating BETWEEN 1 AND 5),
			CONSTRAINT fk_ratings_user FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE,
			CONSTRAINT fk_ratings_store FOREIGN KEY (store_id) REFERENCES stores (id) ON DELETE CASCADE
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`)
	return err
}

func downCreateRatingsTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS ratings`)
	return err
}
