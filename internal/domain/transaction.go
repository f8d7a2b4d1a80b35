package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of ledger transaction.
// The string values are fixed by the snapshot wire format.
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
)

// Transaction represents a single deposit or withdrawal event.
// All fields are immutable once the transaction is created.
type Transaction struct {
	ID        string          `json:"id"`
	Type      TransactionType `json:"type"`
	Amount    decimal.Decimal `json:"amount"` // ABSOLUTE VALUE (always positive)
	Timestamp time.Time       `json:"timestamp"`
}

// NewTransaction constructs a transaction with a fresh unique ID and the
// current UTC time. It never returns a transaction with a non-positive
// amount.
func NewTransaction(txType TransactionType, amount decimal.Decimal) (*Transaction, error) {
	tx := &Transaction{
		ID:        NewTransactionID(),
		Type:      txType,
		Amount:    amount,
		Timestamp: time.Now().UTC(),
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	return tx, nil
}

// NewTransactionID generates an identifier that is unique within a single
// ledger's lifetime. The txn_ prefix keeps IDs recognizable in stored
// snapshots.
func NewTransactionID() string {
	return "txn_" + uuid.NewString()
}

// Validate ensures the transaction adheres to domain rules.
func (t *Transaction) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("transaction ID cannot be empty")
	}
	if t.Type != TransactionTypeDeposit && t.Type != TransactionTypeWithdrawal {
		return fmt.Errorf("transaction type must be %q or %q",
			TransactionTypeDeposit, TransactionTypeWithdrawal)
	}
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	return nil
}

// Signed returns the amount with the sign implied by the transaction type:
// positive for deposits, negative for withdrawals.
func (t *Transaction) Signed() decimal.Decimal {
	if t.Type == TransactionTypeWithdrawal {
		return t.Amount.Neg()
	}
	return t.Amount
}
