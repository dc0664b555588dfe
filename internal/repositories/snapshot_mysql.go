package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const createSnapshotsTable = `CREATE TABLE IF NOT EXISTS snapshots (
	snapshot_key VARCHAR(191) NOT NULL PRIMARY KEY,
	payload      LONGBLOB     NOT NULL,
	updated_at   TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
)`

type mysqlSnapshotStore struct {
	db *sqlx.DB
}

func NewMySQLSnapshotStore(db *sqlx.DB) SnapshotStore {
	return &mysqlSnapshotStore{db: db}
}

// EnsureSnapshotTable creates the snapshots table if it does not exist yet.
func EnsureSnapshotTable(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, createSnapshotsTable); err != nil {
		return fmt.Errorf("failed to create snapshots table: %w", err)
	}
	return nil
}

func (r *mysqlSnapshotStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT payload FROM snapshots WHERE snapshot_key = ?`

	var payload []byte
	if err := r.db.GetContext(ctx, &payload, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to get snapshot %s: %w", key, err)
	}

	return payload, nil
}

// Put upserts a single row, so the replacement is atomic per key.
func (r *mysqlSnapshotStore) Put(ctx context.Context, key string, value []byte) error {
	query := `INSERT INTO snapshots (snapshot_key, payload) VALUES (?, ?)
              ON DUPLICATE KEY UPDATE payload = VALUES(payload)`

	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to put snapshot %s: %w", key, err)
	}

	return nil
}
