package gallery

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/rembish/rembish-org-sub000/internal/domain"
	"github.com/rembish/rembish-org-sub000/internal/ports/out/photosource"
	"github.com/rembish/rembish-org-sub000/internal/ports/out/tripsource"
)

// Service wires a Session to the trip/photo collaborators: it loads
// collections and the neighbor ordering, performs the neighbor fetch when a
// peek is confirmed, and reflects cover/hidden mutations into the cached
// collection. One Service owns one Session; each open/close cycle is fresh.
type Service struct {
	trips  tripsource.Source
	photos photosource.Source
	log    *zap.Logger

	session *Session

	// privileged viewers see hidden trips in the neighbor ordering.
	// Whether the viewer actually is privileged is decided elsewhere.
	privileged bool
}

func NewService(trips tripsource.Source, photos photosource.Source, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		trips:   trips,
		photos:  photos,
		log:     log,
		session: NewSession(),
	}
}

func (s *Service) SetPrivileged(v bool) { s.privileged = v }

func (s *Service) Session() *Session { return s.session }

// OpenTrip opens a trip album at the given index (OpenAtLast allowed).
// A failed neighbor-list load degrades boundary navigation to wrap-around
// instead of failing the open.
func (s *Service) OpenTrip(ctx context.Context, id domain.TripID, index int) error {
	col, err := s.photos.TripCollection(ctx, id)
	if err != nil {
		if errors.Is(err, photosource.ErrNotFound) {
			return &Error{Status: 404, Code: "COLLECTION_NOT_FOUND", Message: "trip album not found"}
		}
		return err
	}
	if err := s.session.Open(col, index); err != nil {
		return err
	}

	ns, err := s.loadNeighbors(ctx)
	if err != nil {
		s.log.Warn("neighbor list unavailable, boundary navigation wraps",
			zap.String("trip_id", string(id)), zap.Error(err))
		s.session.SetNeighbors(nil)
	} else {
		s.session.SetNeighbors(ns)
	}

	s.log.Info("gallery opened",
		zap.String("trip_id", string(id)),
		zap.Int("index", s.session.Index()),
		zap.Int("photos", col.Len()))
	return nil
}

// OpenCountry opens a country album. Country albums never peek.
func (s *Service) OpenCountry(ctx context.Context, country string) error {
	col, err := s.photos.CountryCollection(ctx, country)
	if err != nil {
		if errors.Is(err, photosource.ErrNotFound) {
			return &Error{Status: 404, Code: "COLLECTION_NOT_FOUND", Message: "country album not found"}
		}
		return err
	}
	if err := s.session.Open(col, 0); err != nil {
		return err
	}
	s.session.SetNeighbors(nil)
	s.log.Info("gallery opened", zap.String("country", country), zap.Int("photos", col.Len()))
	return nil
}

// Advance forwards a next/prev request to the session and, when the session
// commits a peek, performs the neighbor fetch and applies the result. A
// stale result (the session moved on meanwhile) is discarded silently.
func (s *Service) Advance(ctx context.Context, dir Direction) (Transition, error) {
	tr := s.session.Advance(dir)
	if tr.Move != MoveCommitted {
		return tr, nil
	}

	req := *tr.Load
	col, err := s.photos.TripCollection(ctx, req.Trip.ID)
	if err != nil {
		// The peek stays active; the user can retry or back out.
		s.log.Warn("neighbor collection fetch failed",
			zap.String("trip_id", string(req.Trip.ID)), zap.Error(err))
		return tr, &Error{Status: 502, Code: "NEIGHBOR_FETCH_FAILED", Message: "could not load the neighboring album"}
	}
	if err := s.session.Apply(req, col); err != nil {
		if errors.Is(err, ErrStaleFetch) {
			s.log.Debug("discarding stale collection load", zap.String("trip_id", string(req.Trip.ID)))
			return tr, nil
		}
		return tr, err
	}
	s.log.Info("gallery moved to neighbor",
		zap.String("trip_id", string(req.Trip.ID)),
		zap.String("direction", dir.String()))
	return tr, nil
}

func (s *Service) Cancel() { s.session.Cancel() }

func (s *Service) Close() {
	s.session.Close()
	s.log.Debug("gallery closed")
}

// SetCover asks the photo collaborator to change a trip's cover photo and,
// if that trip's album is on display, keeps the cached copy consistent.
func (s *Service) SetCover(ctx context.Context, tripID domain.TripID, mediaID domain.MediaID) error {
	if err := s.photos.SetCover(ctx, tripID, mediaID); err != nil {
		if errors.Is(err, photosource.ErrNoPhoto) || errors.Is(err, photosource.ErrNotFound) {
			return &Error{Status: 404, Code: "PHOTO_NOT_FOUND", Message: "photo not found"}
		}
		return err
	}
	key := s.session.Collection().Key
	if key.Kind == domain.CollectionKindTrip && key.TripID == tripID {
		s.session.SetCover(mediaID)
	}
	return nil
}

// SetHidden toggles a trip's hidden flag. Gallery session state never
// changes; only the neighbor ordering is refreshed so a newly hidden trip
// stops being offered as a peek target.
func (s *Service) SetHidden(ctx context.Context, tripID domain.TripID, hidden bool) error {
	if err := s.trips.SetHidden(ctx, tripID, hidden); err != nil {
		if errors.Is(err, tripsource.ErrNotFound) {
			return &Error{Status: 404, Code: "TRIP_NOT_FOUND", Message: "trip not found"}
		}
		return err
	}
	if s.session.IsOpen() {
		if ns, err := s.loadNeighbors(ctx); err == nil {
			s.session.SetNeighbors(ns)
		}
	}
	return nil
}

func (s *Service) loadNeighbors(ctx context.Context) ([]domain.TripSummary, error) {
	all, err := s.trips.ListSummaries(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.TripSummary, 0, len(all))
	for _, t := range all {
		if t.Hidden && !s.privileged {
			continue
		}
		out = append(out, t)
	}
	domain.SortSummaries(out)
	return out, nil
}
