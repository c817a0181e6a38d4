package implementation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"emojiart-be/internal/entity"
	"emojiart-be/internal/repository/contract"
)

const sqliteSnapshotSchema = `CREATE TABLE IF NOT EXISTS snapshots (
	key        TEXT PRIMARY KEY,
	data       BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL
);`

// SqliteSnapshotRepositoryImpl is the local-disk store used by default.
type SqliteSnapshotRepositoryImpl struct {
	db *sql.DB
}

// NewSqliteSnapshotRepository creates the snapshots table if needed.
func NewSqliteSnapshotRepository(db *sql.DB) (contract.SnapshotRepository, error) {
	if _, err := db.Exec(sqliteSnapshotSchema); err != nil {
		return nil, fmt.Errorf("create snapshots table: %w", err)
	}
	return &SqliteSnapshotRepositoryImpl{db: db}, nil
}

func (r *SqliteSnapshotRepositoryImpl) Write(ctx context.Context, key string, data []byte) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO snapshots (key, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		key, data, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%w: write %s: %w", entity.ErrPersistenceFailure, key, err)
	}
	return nil
}

func (r *SqliteSnapshotRepositoryImpl) Read(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx, `SELECT data FROM snapshots WHERE key = ?`, key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: read %s: %w", entity.ErrPersistenceFailure, key, err)
	}
	return data, true, nil
}
