package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAmount       = errors.New("transaction amount must be a positive number")
	ErrInsufficientFunds   = errors.New("insufficient funds for this withdrawal")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// PersistenceError reports a snapshot store read, write or decode failure.
// The in-memory ledger state stays authoritative when one occurs.
type PersistenceError struct {
	Op  string // "load", "save" or "delete"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("snapshot %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ProfileFetchError reports a failed customer profile lookup: transport
// failure, non-2xx status or a malformed response body.
type ProfileFetchError struct {
	Err error
}

func (e *ProfileFetchError) Error() string {
	return fmt.Sprintf("customer profile fetch failed: %v", e.Err)
}

func (e *ProfileFetchError) Unwrap() error { return e.Err }
