package domain

// CustomerProfile is an externally sourced display record. The ledger
// carries it through the snapshot untouched and enforces no invariants on
// its contents.
type CustomerProfile struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Photo    string `json:"photo"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}
