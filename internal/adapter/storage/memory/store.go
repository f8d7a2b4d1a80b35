package memory

import (
	"context"
	"sync"

	"github.com/simaogato/banktrack-backend/internal/domain"
)

// SnapshotStore is an in-memory implementation of domain.SnapshotStore.
// It backs the "memory" storage driver and the tests; nothing survives a
// process restart.
type SnapshotStore struct {
	mu       sync.Mutex
	snapshot *domain.Snapshot
}

// NewSnapshotStore creates a new empty in-memory snapshot store
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Load returns a copy of the stored snapshot, or (nil, nil) if none was
// saved yet.
func (s *SnapshotStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot == nil {
		return nil, nil
	}
	return copySnapshot(s.snapshot), nil
}

// Save stores a copy of the snapshot so later caller mutations cannot
// leak into the store.
func (s *SnapshotStore) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = copySnapshot(snapshot)
	return nil
}

// Delete discards the stored snapshot.
func (s *SnapshotStore) Delete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = nil
	return nil
}

func copySnapshot(snapshot *domain.Snapshot) *domain.Snapshot {
	copied := *snapshot
	copied.Transactions = make([]domain.Transaction, len(snapshot.Transactions))
	copy(copied.Transactions, snapshot.Transactions)
	if snapshot.Customer != nil {
		customer := *snapshot.Customer
		copied.Customer = &customer
	}
	return &copied
}

var _ domain.SnapshotStore = (*SnapshotStore)(nil)
