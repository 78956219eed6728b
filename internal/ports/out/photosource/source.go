package photosource

import (
	"context"

	"github.com/rembish/rembish-org-sub000/internal/domain"
)

// Source provides read access to photo collections and the cover-photo
// pass-through. Collections are constructed fresh per call; photo ordering
// is whatever the backing store defines.
type Source interface {
	TripCollection(ctx context.Context, id domain.TripID) (domain.Collection, error)
	CountryCollection(ctx context.Context, country string) (domain.Collection, error)

	// SetCover marks one photo as the trip's album cover. Cover exclusivity
	// (at most one per trip) is enforced by the backing store.
	SetCover(ctx context.Context, tripID domain.TripID, mediaID domain.MediaID) error
}
