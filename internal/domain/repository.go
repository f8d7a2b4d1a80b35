package domain

import "context"

// SnapshotStore defines the interface for snapshot persistence operations.
// The whole ledger state lives behind one fixed key, so every write is a
// whole-blob overwrite.
type SnapshotStore interface {
	// Load retrieves the stored snapshot. A missing snapshot is not an
	// error: Load returns (nil, nil) so callers can start empty.
	Load(ctx context.Context) (*Snapshot, error)

	// Save writes the snapshot, replacing any previous one. Failures are
	// reported as *PersistenceError.
	Save(ctx context.Context, snapshot *Snapshot) error

	// Delete removes the stored snapshot. Deleting an absent snapshot is
	// a no-op.
	Delete(ctx context.Context) error
}

// CustomerProvider defines the interface for fetching a customer profile
// from an external source.
type CustomerProvider interface {
	Fetch(ctx context.Context) (*CustomerProfile, error)
}
