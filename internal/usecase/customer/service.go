package customer

import (
	"context"
	"errors"
	"sync"

	"github.com/simaogato/banktrack-backend/internal/domain"
)

// ErrStaleLoad is returned when a load completes after a newer load has
// already started. The stale result is discarded so it can never
// overwrite fresher data.
var ErrStaleLoad = errors.New("customer load superseded by a newer request")

// Ledger is the subset of the ledger service the customer service needs:
// a single atomic replace of the stored profile.
type Ledger interface {
	SetCustomer(ctx context.Context, customer *domain.CustomerProfile)
}

// Service loads customer profiles from an external provider and applies
// them to the ledger. Loads may overlap; each one is tagged with a
// monotonically increasing sequence number and only the most recently
// initiated load's resolution is applied.
type Service struct {
	Provider domain.CustomerProvider
	Ledger   Ledger

	mu  sync.Mutex
	seq uint64
}

// NewService creates a new customer Service instance
func NewService(provider domain.CustomerProvider, ledger Ledger) *Service {
	return &Service{
		Provider: provider,
		Ledger:   ledger,
	}
}

// Load fetches a profile and stores it on the ledger. A fetch failure
// leaves the previous profile in place and is reported as a
// *domain.ProfileFetchError; a result that arrives after a newer load has
// started is dropped with ErrStaleLoad.
func (s *Service) Load(ctx context.Context) (*domain.CustomerProfile, error) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	profile, err := s.Provider.Fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq {
		return nil, ErrStaleLoad
	}
	if err != nil {
		var fetchErr *domain.ProfileFetchError
		if !errors.As(err, &fetchErr) {
			err = &domain.ProfileFetchError{Err: err}
		}
		return nil, err
	}

	s.Ledger.SetCustomer(ctx, profile)
	return profile, nil
}
