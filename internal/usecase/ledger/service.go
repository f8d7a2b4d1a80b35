package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/simaogato/banktrack-backend/internal/domain"
)

// Statistics represents a read-only aggregation over the ledger
type Statistics struct {
	Count            int
	TotalDeposits    decimal.Decimal
	TotalWithdrawals decimal.Decimal
	DepositCount     int
	WithdrawalCount  int
	Balance          decimal.Decimal
}

// Service owns the ordered transaction sequence and its derived balance.
// The sequence is newest-first: new entries are prepended. The balance is
// always the fold sum(deposits) - sum(withdrawals) over the sequence;
// there is no independently mutable balance state.
//
// Mutations are serialized by a mutex and run to completion before the
// next one begins. Every successful mutation is followed by a snapshot
// save; a failed save is logged as a warning and does not roll the
// mutation back, since the in-memory state stays authoritative.
type Service struct {
	mu           sync.Mutex
	transactions []domain.Transaction
	balance      decimal.Decimal
	customer     *domain.CustomerProfile

	store domain.SnapshotStore
}

// NewService creates a ledger hydrated from the store's snapshot if one
// exists. A load failure never prevents startup: the error is logged and
// the ledger starts empty.
func NewService(ctx context.Context, store domain.SnapshotStore) *Service {
	s := &Service{
		balance: decimal.Zero,
		store:   store,
	}

	snapshot, err := store.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load snapshot, starting with an empty ledger")
		return s
	}
	if snapshot == nil {
		return s
	}

	s.transactions = append(s.transactions, snapshot.Transactions...)
	s.customer = snapshot.Customer
	// Re-derive the balance instead of trusting the stored value.
	s.recomputeLocked()
	return s
}

// Add validates and records a new transaction at the front of the
// sequence. It fails with domain.ErrInvalidAmount for a non-positive
// amount and with domain.ErrInsufficientFunds when a withdrawal exceeds
// the current balance; failed calls leave the ledger exactly as before.
func (s *Service) Add(ctx context.Context, txType domain.TransactionType, amount decimal.Decimal) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	// The guard applies to withdrawals only: deleting deposits later may
	// still drive the balance negative, which is allowed.
	if txType == domain.TransactionTypeWithdrawal && amount.GreaterThan(s.balance) {
		return nil, domain.ErrInsufficientFunds
	}

	tx, err := domain.NewTransaction(txType, amount)
	if err != nil {
		return nil, err
	}

	// Newest first.
	s.transactions = append([]domain.Transaction{*tx}, s.transactions...)
	s.balance = s.balance.Add(tx.Signed())

	s.persistLocked(ctx)
	return tx, nil
}

// Remove deletes the transaction with the given ID and returns it. It
// fails with domain.ErrTransactionNotFound for an unknown ID. The balance
// is fully recomputed from the remaining sequence rather than by
// reversing the removed entry's delta, so any drift is self-healing.
func (s *Service) Remove(ctx context.Context, id string) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, tx := range s.transactions {
		if tx.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, domain.ErrTransactionNotFound
	}

	removed := s.transactions[idx]
	s.transactions = append(s.transactions[:idx], s.transactions[idx+1:]...)
	s.recomputeLocked()

	s.persistLocked(ctx)
	return &removed, nil
}

// Recompute re-derives the balance from the transaction sequence from
// scratch. It is idempotent.
func (s *Service) Recompute() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recomputeLocked()
}

func (s *Service) recomputeLocked() {
	balance := decimal.Zero
	for _, tx := range s.transactions {
		balance = balance.Add(tx.Signed())
	}
	s.balance = balance
}

// Clear empties the ledger and removes the persisted snapshot. It is
// unconditional: any confirmation dialog belongs to the presentation
// layer.
func (s *Service) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transactions = nil
	s.balance = decimal.Zero
	s.customer = nil

	if err := s.store.Delete(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to delete snapshot")
	}
}

// SetCustomer atomically replaces the customer profile and persists the
// snapshot. The profile has no effect on ledger invariants.
func (s *Service) SetCustomer(ctx context.Context, customer *domain.CustomerProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.customer = customer
	s.persistLocked(ctx)
}

// Statistics returns a read-only aggregation over the current sequence.
func (s *Service) Statistics() Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Statistics{
		Count:            len(s.transactions),
		TotalDeposits:    decimal.Zero,
		TotalWithdrawals: decimal.Zero,
		Balance:          s.balance,
	}
	for _, tx := range s.transactions {
		if tx.Type == domain.TransactionTypeDeposit {
			stats.TotalDeposits = stats.TotalDeposits.Add(tx.Amount)
			stats.DepositCount++
		} else {
			stats.TotalWithdrawals = stats.TotalWithdrawals.Add(tx.Amount)
			stats.WithdrawalCount++
		}
	}
	return stats
}

// Balance returns the current derived balance.
func (s *Service) Balance() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance
}

// Transactions returns a copy of the sequence, newest first, so callers
// cannot mutate internal state.
func (s *Service) Transactions() []domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]domain.Transaction, len(s.transactions))
	copy(copied, s.transactions)
	return copied
}

// Customer returns the last-known customer profile, or nil.
func (s *Service) Customer() *domain.CustomerProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.customer
}

// persistLocked saves the current state as a snapshot. The caller must
// hold the mutex. A save failure is a warning, never a rollback: the
// mutation already succeeded in memory.
func (s *Service) persistLocked(ctx context.Context) {
	snapshot := &domain.Snapshot{
		Transactions:   make([]domain.Transaction, len(s.transactions)),
		CurrentBalance: s.balance,
		Customer:       s.customer,
		LastUpdated:    time.Now().UTC(),
	}
	copy(snapshot.Transactions, s.transactions)

	if err := s.store.Save(ctx, snapshot); err != nil {
		log.Warn().Err(err).Msg("failed to save snapshot, in-memory state remains authoritative")
	}
}
