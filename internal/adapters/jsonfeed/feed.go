// Package jsonfeed backs the trip and photo sources with a JSON export file.
// The export is read once at construction; hidden/cover reflections mutate
// the in-memory copy only and are lost on restart.
package jsonfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/rembish/rembish-org-sub000/internal/domain"
	"github.com/rembish/rembish-org-sub000/internal/ports/out/photosource"
	"github.com/rembish/rembish-org-sub000/internal/ports/out/tripsource"
)

type feedFile struct {
	Trips  []tripRecord  `json:"trips"`
	Photos []photoRecord `json:"photos"`
}

type tripRecord struct {
	ID        string             `json:"id"`
	StartDate openapi_types.Date `json:"start_date"`
	// end_date: absent or null both mean single-day/ongoing.
	EndDate                nullable.Nullable[openapi_types.Date] `json:"end_date,omitempty"`
	Type                   string                                `json:"type"`
	Destinations           []placeRecord                         `json:"destinations"`
	Cities                 []placeRecord                         `json:"cities,omitempty"`
	Participants           []personRecord                        `json:"participants,omitempty"`
	OtherParticipantsCount nullable.Nullable[int]                `json:"other_participants_count,omitempty"`
	Flights                int                                   `json:"flights,omitempty"`
	Hidden                 bool                                  `json:"hidden,omitempty"`
}

type placeRecord struct {
	Name    string `json:"name"`
	Partial bool   `json:"partial,omitempty"`
}

type personRecord struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type photoRecord struct {
	ID          string                    `json:"id"`
	TripID      string                    `json:"trip_id"`
	Caption     nullable.Nullable[string] `json:"caption,omitempty"`
	PostedAt    time.Time                 `json:"posted_at"`
	Aerial      bool                      `json:"aerial,omitempty"`
	Cover       bool                      `json:"cover,omitempty"`
	Destination nullable.Nullable[string] `json:"destination,omitempty"`
}

// Feed serves both tripsource.Source and photosource.Source from one export
// file. It is safe for concurrent use.
type Feed struct {
	mu     sync.RWMutex
	trips  map[domain.TripID]domain.Trip
	photos map[domain.TripID][]domain.Photo
}

var (
	_ tripsource.Source  = (*Feed)(nil)
	_ photosource.Source = (*Feed)(nil)
)

// Open reads and decodes the export file at path.
func Open(path string) (*Feed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("jsonfeed: read %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes an export payload.
func Parse(raw []byte) (*Feed, error) {
	var file feedFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("jsonfeed: decode: %w", err)
	}

	f := &Feed{
		trips:  make(map[domain.TripID]domain.Trip, len(file.Trips)),
		photos: make(map[domain.TripID][]domain.Photo),
	}
	for i, rec := range file.Trips {
		t, err := decodeTrip(rec)
		if err != nil {
			return nil, fmt.Errorf("jsonfeed: trips[%d]: %w", i, err)
		}
		if _, dup := f.trips[t.ID]; dup {
			return nil, fmt.Errorf("jsonfeed: trips[%d]: duplicate id %s", i, t.ID)
		}
		f.trips[t.ID] = t
	}
	for i, rec := range file.Photos {
		tripID, p, err := decodePhoto(rec)
		if err != nil {
			return nil, fmt.Errorf("jsonfeed: photos[%d]: %w", i, err)
		}
		if _, ok := f.trips[tripID]; !ok {
			return nil, fmt.Errorf("jsonfeed: photos[%d]: unknown trip %s", i, tripID)
		}
		f.photos[tripID] = append(f.photos[tripID], p)
	}
	return f, nil
}

func decodeTrip(rec tripRecord) (domain.Trip, error) {
	if _, err := uuid.Parse(rec.ID); err != nil {
		return domain.Trip{}, fmt.Errorf("id %q: %w", rec.ID, err)
	}
	t := domain.Trip{
		ID:        domain.TripID(rec.ID),
		StartDate: domain.DateOnly(rec.StartDate.Time),
		Flights:   rec.Flights,
		Hidden:    rec.Hidden,
	}

	if rec.EndDate.IsSpecified() && !rec.EndDate.IsNull() {
		v, err := rec.EndDate.Get()
		if err != nil {
			return domain.Trip{}, fmt.Errorf("end_date: %w", err)
		}
		end := domain.DateOnly(v.Time)
		t.EndDate = &end
	}

	switch strings.ToLower(rec.Type) {
	case "", "regular":
		t.Type = domain.TripTypeRegular
	case "work":
		t.Type = domain.TripTypeWork
	case "relocation":
		t.Type = domain.TripTypeRelocation
	default:
		return domain.Trip{}, fmt.Errorf("unknown trip type %q", rec.Type)
	}

	if len(rec.Destinations) == 0 {
		return domain.Trip{}, fmt.Errorf("trip %s has no destinations", rec.ID)
	}
	t.Destinations = decodePlaces(rec.Destinations)
	t.Cities = decodePlaces(rec.Cities)

	for _, p := range rec.Participants {
		t.Participants = append(t.Participants, domain.PersonRef{ID: p.ID, DisplayName: p.DisplayName})
	}
	if rec.OtherParticipantsCount.IsSpecified() && !rec.OtherParticipantsCount.IsNull() {
		v, err := rec.OtherParticipantsCount.Get()
		if err != nil {
			return domain.Trip{}, fmt.Errorf("other_participants_count: %w", err)
		}
		t.OtherParticipants = &v
	}
	return t, nil
}

func decodePhoto(rec photoRecord) (domain.TripID, domain.Photo, error) {
	if _, err := uuid.Parse(rec.ID); err != nil {
		return "", domain.Photo{}, fmt.Errorf("id %q: %w", rec.ID, err)
	}
	p := domain.Photo{
		ID:       domain.MediaID(rec.ID),
		PostedAt: rec.PostedAt.UTC(),
		Aerial:   rec.Aerial,
		Cover:    rec.Cover,
	}
	if rec.Caption.IsSpecified() && !rec.Caption.IsNull() {
		raw, err := rec.Caption.Get()
		if err != nil {
			return "", domain.Photo{}, fmt.Errorf("caption: %w", err)
		}
		if norm := domain.NormalizeCaption(raw); norm != "" {
			p.Caption = &norm
		}
	}
	if rec.Destination.IsSpecified() && !rec.Destination.IsNull() {
		v, err := rec.Destination.Get()
		if err != nil {
			return "", domain.Photo{}, fmt.Errorf("destination: %w", err)
		}
		p.Destination = &v
	}
	return domain.TripID(rec.TripID), p, nil
}

func decodePlaces(recs []placeRecord) []domain.PlaceVisit {
	if len(recs) == 0 {
		return nil
	}
	out := make([]domain.PlaceVisit, len(recs))
	for i, r := range recs {
		out[i] = domain.PlaceVisit{Name: r.Name, Partial: r.Partial}
	}
	return out
}

func (f *Feed) ListTrips(ctx context.Context) ([]domain.Trip, error) {
	_ = ctx
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]domain.Trip, 0, len(f.trips))
	for _, t := range f.trips {
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.Before(out[j].StartDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *Feed) GetTrip(ctx context.Context, id domain.TripID) (domain.Trip, error) {
	_ = ctx
	f.mu.RLock()
	defer f.mu.RUnlock()
	t, ok := f.trips[id]
	if !ok {
		return domain.Trip{}, tripsource.ErrNotFound
	}
	return t, nil
}

func (f *Feed) ListSummaries(ctx context.Context) ([]domain.TripSummary, error) {
	_ = ctx
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]domain.TripSummary, 0, len(f.trips))
	for id, t := range f.trips {
		names := make([]string, len(t.Destinations))
		for i, d := range t.Destinations {
			names[i] = d.Name
		}
		out = append(out, domain.TripSummary{
			ID:           t.ID,
			StartDate:    t.StartDate,
			EndDate:      t.EndDate,
			Destinations: names,
			PhotoCount:   len(f.photos[id]),
			Hidden:       t.Hidden,
		})
	}
	domain.SortSummaries(out)
	return out, nil
}

func (f *Feed) SetHidden(ctx context.Context, id domain.TripID, hidden bool) error {
	_ = ctx
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.trips[id]
	if !ok {
		return tripsource.ErrNotFound
	}
	t.Hidden = hidden
	f.trips[id] = t
	return nil
}

func (f *Feed) TripCollection(ctx context.Context, id domain.TripID) (domain.Collection, error) {
	_ = ctx
	f.mu.RLock()
	defer f.mu.RUnlock()
	photos, ok := f.photos[id]
	if !ok {
		return domain.Collection{}, photosource.ErrNotFound
	}
	c := domain.Collection{
		Key:    domain.CollectionKey{Kind: domain.CollectionKindTrip, TripID: id},
		Photos: photos,
	}
	return c.Clone(), nil
}

func (f *Feed) CountryCollection(ctx context.Context, country string) (domain.Collection, error) {
	_ = ctx
	f.mu.RLock()
	defer f.mu.RUnlock()
	var photos []domain.Photo
	for _, ps := range f.photos {
		for _, p := range ps {
			if p.Destination != nil && *p.Destination == country {
				photos = append(photos, p)
			}
		}
	}
	if len(photos) == 0 {
		return domain.Collection{}, photosource.ErrNotFound
	}
	sort.SliceStable(photos, func(i, j int) bool {
		return photos[i].PostedAt.Before(photos[j].PostedAt)
	})
	c := domain.Collection{
		Key:    domain.CollectionKey{Kind: domain.CollectionKindCountry, Country: country},
		Photos: photos,
	}
	return c.Clone(), nil
}

func (f *Feed) SetCover(ctx context.Context, tripID domain.TripID, mediaID domain.MediaID) error {
	_ = ctx
	f.mu.Lock()
	defer f.mu.Unlock()
	photos, ok := f.photos[tripID]
	if !ok {
		return photosource.ErrNotFound
	}
	found := false
	for i := range photos {
		if photos[i].ID == mediaID {
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
