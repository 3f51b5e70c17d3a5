package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateUsersTable, downCreateUsersTable)
}

// users.store_id is unique so a store never has more than one owner.
func upCreateUsersTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id            CHAR(36)     NOT NULL,
			name          VARCHAR(60)  NOT NULL,
			email         VARCHAR(255) NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			role          ENUM('ADMIN','USER','STORE_OWNER') NOT NULL DEFAULT 'USER',
			address       VARCHAR(400) NOT NULL,
			store_id      CHAR(36)     NULL,
			created_at    DATETIME(3)  NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
			PRIMARY KEY (id),
			UNIQUE KEY uq_users_email (email),
			UNIQUE KEY uq_users_store_id (store_id),
			KEY idx_users_role (role),
			CONSTRAINT fk_users_store FOREIGN KEY (store_id) REFERENCES stores (id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`)
	return err
}

func downCreateUsersTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS users`)
	return err
}
