package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/simaogato/banktrack-backend/internal/domain"
)

// SnapshotStore persists the snapshot as a single JSON file, the
// server-side analogue of the browser's local storage key. Writes go
// through a temp file and a rename so a crashed write never leaves a
// truncated blob behind.
type SnapshotStore struct {
	path string
}

// NewSnapshotStore creates a store writing to the given file path.
func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: path}
}

// Load reads and decodes the snapshot file. A missing file means no
// snapshot was ever saved and returns (nil, nil).
func (s *SnapshotStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &domain.PersistenceError{Op: "load", Err: err}
	}

	var snapshot domain.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, &domain.PersistenceError{Op: "load", Err: fmt.Errorf("malformed snapshot: %w", err)}
	}
	return &snapshot, nil
}

// Save serializes the snapshot and replaces the file in one whole-blob
// overwrite.
func (s *SnapshotStore) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return &domain.PersistenceError{Op: "save", Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return &domain.PersistenceError{Op: "save", Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".snapshot-*")
	if err != nil {
		return &domain.PersistenceError{Op: "save", Err: err}
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &domain.PersistenceError{Op: "save", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &domain.PersistenceError{Op: "save", Err: err}
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return &domain.PersistenceError{Op: "save", Err: err}
	}
	return nil
}

// Delete removes the snapshot file. Deleting an absent snapshot is a
// no-op.
func (s *SnapshotStore) Delete(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return &domain.PersistenceError{Op: "delete", Err: err}
	}
	return nil
}

var _ domain.SnapshotStore = (*SnapshotStore)(nil)
