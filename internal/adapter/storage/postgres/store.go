package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/simaogato/banktrack-backend/internal/domain"
)

// snapshotKey matches the fixed local-storage key the original tracker
// used, so one row holds the entire ledger state.
const snapshotKey = "bankingTransactionData"

// snapshotStore implements domain.SnapshotStore on top of a single-row
// jsonb table. Every Save is a whole-blob upsert; no multi-key
// consistency is needed because the whole state lives behind one key.
type snapshotStore struct {
	db *DB
}

// NewSnapshotStore creates a new postgres-backed snapshot store
func NewSnapshotStore(db *DB) domain.SnapshotStore {
	return &snapshotStore{db: db}
}

// Init creates the snapshots table if it does not exist yet.
func Init(ctx context.Context, db *DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS snapshots (
			key        TEXT PRIMARY KEY,
			data       JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)
	`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create snapshots table: %w", err)
	}
	return nil
}

// Load reads the snapshot row. A missing row means no snapshot was ever
// saved and returns (nil, nil).
func (r *snapshotStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	query := `SELECT data FROM snapshots WHERE key = $1`

	var data []byte
	err := r.db.QueryRowContext(ctx, query, snapshotKey).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.PersistenceError{Op: "load", Err: err}
	}

	var snapshot domain.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, &domain.PersistenceError{Op: "load", Err: fmt.Errorf("malformed snapshot: %w", err)}
	}
	return &snapshot, nil
}

// Save upserts the serialized snapshot under the fixed key.
func (r *snapshotStore) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return &domain.PersistenceError{Op: "save", Err: err}
	}

	query := `
		INSERT INTO snapshots (key, data, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, snapshotKey, data, time.Now().UTC()); err != nil {
		return &domain.PersistenceError{Op: "save", Err: err}
	}
	return nil
}

// Delete removes the snapshot row. Deleting an absent row is a no-op.
func (r *snapshotStore) Delete(ctx context.Context) error {
	query := `DELETE FROM snapshots WHERE key = $1`

	if _, err := r.db.ExecContext(ctx, query, snapshotKey); err != nil {
		return &domain.PersistenceError{Op: "delete", Err: err}
	}
	return nil
}
