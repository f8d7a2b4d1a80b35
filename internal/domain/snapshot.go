package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// The snapshot format stores amounts as plain JSON numbers, not quoted
// strings.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Snapshot is the serialized representation of the full ledger state plus
// the last-known customer profile. Deserializing a just-serialized
// snapshot must yield an equal ledger state: same transactions in the same
// order, same balance.
type Snapshot struct {
	Transactions   []Transaction    `json:"transactions"`
	CurrentBalance decimal.Decimal  `json:"currentBalance"`
	Customer       *CustomerProfile `json:"customer"`
	LastUpdated    time.Time        `json:"lastUpdated"`
}
