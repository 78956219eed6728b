package photosource

import (
	"context"
	"sort"
	"sync"

	"github.com/rembish/rembish-org-sub000/internal/domain"
	"github.com/rembish/rembish-org-sub000/internal/ports/out/photosource"
)

// Repo is an in-memory implementation of photosource.Source.
// It is safe for concurrent use.
type Repo struct {
	mu     sync.RWMutex
	byTrip map[domain.TripID][]domain.Photo
}

func NewRepo() *Repo {
	return &Repo{byTrip: make(map[domain.TripID][]domain.Photo)}
}

// PutTripCollection installs a trip album in the given order.
func (r *Repo) PutTripCollection(id domain.TripID, photos []domain.Photo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byTrip[id] = clonePhotos(photos)
}

func (r *Repo) TripCollection(ctx context.Context, id domain.TripID) (domain.Collection, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	photos, ok := r.byTrip[id]
	if !ok {
		return domain.Collection{}, photosource.ErrNotFound
	}
	return domain.Collection{
		Key:    domain.CollectionKey{Kind: domain.CollectionKindTrip, TripID: id},
		Photos: clonePhotos(photos),
	}, nil
}

// CountryCollection gathers every photo tagged with the country across all
// albums, ordered by posting time.
func (r *Repo) CountryCollection(ctx context.Context, country string) (domain.Collection, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Photo, 0)
	for _, photos := range r.byTrip {
		for _, p := range photos {
			if p.Destination != nil && *p.Destination == country {
				out = append(out, clonePhoto(p))
			}
		}
	}
	if len(out) == 0 {
		return domain.Collection{}, photosource.ErrNotFound
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PostedAt.Before(out[j].PostedAt) })
	return domain.Collection{
		Key:    domain.CollectionKey{Kind: domain.CollectionKindCountry, Country: country},
		Photos: out,
	}, nil
}

func (r *Repo) SetCover(ctx context.Context, tripID domain.TripID, mediaID domain.MediaID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	photos, ok := r.byTrip[tripID]
	if !ok {
		return photosource.ErrNotFound
	}
	found := false
	for _, p := range photos {
		if p.ID == mediaID {
			found = true
			break
		}
	}
	if !found {
		return photosource.ErrNoPhoto
	}
	for i := range photos {
		photos[i].Cover = photos[i].ID == mediaID
	}
	return nil
}

func clonePhotos(ps []domain.Photo) []domain.Photo {
	out := make([]domain.Photo, len(ps))
	for i, p := range ps {
		out[i] = clonePhoto(p)
	}
	return out
}

func clonePhoto(p domain.Photo) domain.Photo {
	cp := p
	if p.Caption != nil {
		v := *p.Caption
		cp.Caption = &v
	}
	if p.Destination != nil {
		v := *p.Destination
		cp.Destination = &v
	}
	return cp
}
