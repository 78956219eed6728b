// Package contracttest holds shared behavioral suites for Source
// implementations, so every adapter honors the same ordering and
// sentinel-error contracts.
package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rembish/rembish-org-sub000/internal/domain"
	photosourceport "github.com/rembish/rembish-org-sub000/internal/ports/out/photosource"
	tripsourceport "github.com/rembish/rembish-org-sub000/internal/ports/out/tripsource"
)

type CleanupFunc = func()

// Fixture seeds deterministic data into an adapter under test.
type Fixture struct {
	Trips  []domain.Trip
	Photos map[domain.TripID][]domain.Photo
}

type TripSourceFactory func(t *testing.T, fx Fixture) (tripsourceport.Source, CleanupFunc)
type PhotoSourceFactory func(t *testing.T, fx Fixture) (photosourceport.Source, CleanupFunc)

const (
	tripEarly  = domain.TripID("0f0e0d0c-0b0a-4000-8000-000000000001")
	tripLate   = domain.TripID("0f0e0d0c-0b0a-4000-8000-000000000002")
	tripSolo   = domain.TripID("0f0e0d0c-0b0a-4000-8000-000000000003")
	photoOne   = domain.MediaID("0f0e0d0c-0b0a-4000-9000-000000000001")
	photoTwo   = domain.MediaID("0f0e0d0c-0b0a-4000-9000-000000000002")
	photoThree = domain.MediaID("0f0e0d0c-0b0a-4000-9000-000000000003")
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// StandardFixture is the dataset both suites run against.
func StandardFixture() Fixture {
	end := date(2023, time.June, 8)
	country := "Portugal"
	return Fixture{
		Trips: []domain.Trip{
			{
				ID:           tripEarly,
				StartDate:    date(2023, time.June, 1),
				EndDate:      &end,
				Type:         domain.TripTypeRegular,
				Destinations: []domain.PlaceVisit{{Name: "Portugal"}},
				Flights:      2,
			},
			{
				ID:           tripLate,
				StartDate:    date(2023, time.September, 1),
				Type:         domain.TripTypeWork,
				Destinations: []domain.PlaceVisit{{Name: "Portugal"}, {Name: "Spain", Partial: true}},
				Hidden:       true,
			},
			{
				ID:           tripSolo,
				StartDate:    date(2024, time.February, 1),
				Type:         domain.TripTypeRegular,
				Destinations: []domain.PlaceVisit{{Name: "Japan"}},
			},
		},
		Photos: map[domain.TripID][]domain.Photo{
			tripEarly: {
				{ID: photoOne, PostedAt: date(2023, time.June, 2).Add(10 * time.Hour), Cover: true, Destination: &country},
				{ID: photoTwo, PostedAt: date(2023, time.June, 3).Add(9 * time.Hour), Destination: &country},
			},
			tripLate: {
				{ID: photoThree, PostedAt: date(2023, time.September, 2), Destination: &country},
			},
		},
	}
}

func RunTripSource(t *testing.T, newSource TripSourceFactory) {
	t.Helper()
	ctx := context.Background()

	src, cleanup := newSource(t, StandardFixture())
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	trips, err := src.ListTrips(ctx)
	if err != nil {
		t.Fatalf("ListTrips: %v", err)
	}
	if len(trips) != 3 {
		t.Fatalf("expected 3 trips, got %d", len(trips))
	}
	for i := 1; i < len(trips); i++ {
		if trips[i].StartDate.Before(trips[i-1].StartDate) {
			t.Fatalf("trips not ordered by start date: %v then %v", trips[i-1].StartDate, trips[i].StartDate)
		}
	}

	got, err := src.GetTrip(ctx, tripLate)
	if err != nil {
		t.Fatalf("GetTrip: %v", err)
	}
	if !got.Hidden || got.Type != domain.TripTypeWork {
		t.Fatalf("unexpected trip: %+v", got)
	}
	if len(got.Destinations) != 2 || !got.Destinations[1].Partial {
		t.Fatalf("destinations lost ordering or partial flag: %+v", got.Destinations)
	}

	if _, err := src.GetTrip(ctx, "0f0e0d0c-0b0a-4000-8000-00000000ffff"); !errors.Is(err, tripsourceport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	sums, err := src.ListSummaries(ctx)
	if err != nil {
		t.Fatalf("ListSummaries: %v", err)
	}
	if len(sums) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(sums))
	}
	if sums[0].ID != tripEarly || sums[0].PhotoCount != 2 {
		t.Fatalf("unexpected first summary: %+v", sums[0])
	}
	if sums[2].PhotoCount != 0 {
		t.Fatalf("photo-less trip must report zero count: %+v", sums[2])
	}

	if err := src.SetHidden(ctx, tripSolo, true); err != nil {
		t.Fatalf("SetHidden: %v", err)
	}
	got, err = src.GetTrip(ctx, tripSolo)
	if err != nil {
		t.Fatalf("GetTrip after SetHidden: %v", err)
	}
	if !got.Hidden {
		t.Fatalf("hidden flag not persisted")
	}
	if err := src.SetHidden(ctx, "0f0e0d0c-0b0a-4000-8000-00000000ffff", true); !errors.Is(err, tripsourceport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func RunPhotoSource(t *testing.T, newSource PhotoSourceFactory) {
	t.Helper()
	ctx := context.Background()

	src, cleanup := newSource(t, StandardFixture())
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	col, err := src.TripCollection(ctx, tripEarly)
	if err != nil {
		t.Fatalf("TripCollection: %v", err)
	}
	if col.Key.Kind != domain.CollectionKindTrip || col.Key.TripID != tripEarly {
		t.Fatalf("unexpected key: %+v", col.Key)
	}
	if col.Len() != 2 || col.Photos[0].ID != photoOne {
		t.Fatalf("unexpected photos: %+v", col.Photos)
	}

	if _, err := src.TripCollection(ctx, "0f0e0d0c-0b0a-4000-8000-00000000ffff"); !errors.Is(err, photosourceport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	byCountry, err := src.CountryCollection(ctx, "Portugal")
	if err != nil {
		t.Fatalf("CountryCollection: %v", err)
	}
	if byCountry.Key.Kind != domain.CollectionKindCountry || byCountry.Key.Country != "Portugal" {
		t.Fatalf("unexpected key: %+v", byCountry.Key)
	}
	if byCountry.Len() != 3 {
		t.Fatalf("expected photos from both trips, got %d", byCountry.Len())
	}
	for i := 1; i < byCountry.Len(); i++ {
		if byCountry.Photos[i].PostedAt.Before(byCountry.Photos[i-1].PostedAt) {
			t.Fatalf("country album not ordered by posted time")
		}
	}
	if _, err := src.CountryCollection(ctx, "Atlantis"); !errors.Is(err, photosourceport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Cover exclusivity.
	if err := src.SetCover(ctx, tripEarly, photoTwo); err != nil {
		t.Fatalf("SetCover: %v", err)
	}
	col, err = src.TripCollection(ctx, tripEarly)
	if err != nil {
		t.Fatalf("TripCollection: %v", err)
	}
	if col.Photos[0].Cover || !col.Photos[1].Cover {
		t.Fatalf("cover not exclusive: %+v", col.Photos)
	}
	if err := src.SetCover(ctx, tripEarly, "0f0e0d0c-0b0a-4000-9000-00000000ffff"); !errors.Is(err, photosourceport.ErrNoPhoto) {
		t.Fatalf("expected ErrNoPhoto, got %v", err)
	}
}
