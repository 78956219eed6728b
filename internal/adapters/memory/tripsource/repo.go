package tripsource

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rembish/rembish-org-sub000/internal/domain"
	"github.com/rembish/rembish-org-sub000/internal/ports/out/tripsource"
)

// Repo is an in-memory implementation of tripsource.Source.
// It is safe for concurrent use.
type Repo struct {
	mu     sync.RWMutex
	byID   map[domain.TripID]domain.Trip
	counts map[domain.TripID]int
}

func NewRepo() *Repo {
	return &Repo{
		byID:   make(map[domain.TripID]domain.Trip),
		counts: make(map[domain.TripID]int),
	}
}

// Add upserts a trip record. It stands in for the external mutation owner.
func (r *Repo) Add(t domain.Trip) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[t.ID] = cloneTrip(t)
}

// SetPhotoCount records the album size reported for a trip's summary.
func (r *Repo) SetPhotoCount(id domain.TripID, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[id] = n
}

func (r *Repo) ListTrips(ctx context.Context) ([]domain.Trip, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Trip, 0, len(r.byID))
	for _, t := range r.byID {
		out = append(out, cloneTrip(t))
	}
	sortTrips(out)
	return out, nil
}

func (r *Repo) GetTrip(ctx context.Context, id domain.TripID) (domain.Trip, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	if !ok {
		return domain.Trip{}, tripsource.ErrNotFound
	}
	return cloneTrip(t), nil
}

func (r *Repo) ListSummaries(ctx context.Context) ([]domain.TripSummary, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.TripSummary, 0, len(r.byID))
	for _, t := range r.byID {
		dests := make([]string, 0, len(t.Destinations))
		for _, d := range t.Destinations {
			dests = append(dests, d.Name)
		}
		out = append(out, domain.TripSummary{
			ID:           t.ID,
			StartDate:    t.StartDate,
			EndDate:      cloneTimePtr(t.EndDate),
			Destinations: dests,
			PhotoCount:   r.counts[t.ID],
			Hidden:       t.Hidden,
		})
	}
	domain.SortSummaries(out)
	return out, nil
}

func (r *Repo) SetHidden(ctx context.Context, id domain.TripID, hidden bool) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return tripsource.ErrNotFound
	}
	t.Hidden = hidden
	r.byID[id] = t
	return nil
}

func cloneTrip(t domain.Trip) domain.Trip {
	cp := t
	cp.EndDate = cloneTimePtr(t.EndDate)
	if t.Destinations != nil {
		cp.Destinations = append([]domain.PlaceVisit(nil), t.Destinations...)
	}
	if t.Cities != nil {
		cp.Cities = append([]domain.PlaceVisit(nil), t.Cities...)
	}
	if t.Participants != nil {
		cp.Participants = append([]domain.PersonRef(nil), t.Participants...)
	}
	if t.OtherParticipants != nil {
		v := *t.OtherParticipants
		cp.OtherParticipants = &v
	}
	return cp
}

func cloneTimePtr(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func sortTrips(ts []domain.Trip) {
	sort.Slice(ts, func(i, j int) bool {
		a, b := ts[i], ts[j]
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.Before(b.StartDate)
		}
		return string(a.ID) < string(b.ID)
	})
}
