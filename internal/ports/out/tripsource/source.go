package tripsource

import (
	"context"

	"github.com/rembish/rembish-org-sub000/internal/domain"
)

// Source provides read access to the externally-owned trip records, plus the
// hidden-flag pass-through. Persistence, validation and conflict resolution
// live with the backing store, not here.
//
// Result ordering expectations:
// - ListTrips returns trips ordered by start date ascending, ID ascending.
// - ListSummaries returns the global gallery ordering (same rule).
type Source interface {
	ListTrips(ctx context.Context) ([]domain.Trip, error)
	GetTrip(ctx context.Context, id domain.TripID) (domain.Trip, error)

	ListSummaries(ctx context.Context) ([]domain.TripSummary, error)

	// SetHidden toggles a trip's hidden flag in the backing store.
	SetHidden(ctx context.Context, id domain.TripID, hidden bool) error
}
