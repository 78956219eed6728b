package gallery

import (
	"context"
	"errors"
	"testing"
	"time"

	memphotosource "github.com/rembish/rembish-org-sub000/internal/adapters/memory/photosource"
	memtripsource "github.com/rembish/rembish-org-sub000/internal/adapters/memory/tripsource"
	"github.com/rembish/rembish-org-sub000/internal/domain"
)

const (
	tripA = "aaaaaaaa-0000-4000-8000-000000000001"
	tripB = "aaaaaaaa-0000-4000-8000-000000000002"
	tripC = "aaaaaaaa-0000-4000-8000-000000000003"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newFixture(t *testing.T) (*Service, *memtripsource.Repo, *memphotosource.Repo) {
	t.Helper()
	trips := memtripsource.NewRepo()
	photos := memphotosource.NewRepo()

	add := func(id domain.TripID, start time.Time, dest string, hidden bool, photoIDs ...domain.MediaID) {
		trips.Add(domain.Trip{
			ID:           id,
			StartDate:    start,
			Type:         domain.TripTypeRegular,
			Destinations: []domain.PlaceVisit{{Name: dest}},
			Hidden:       hidden,
		})
		ps := make([]domain.Photo, len(photoIDs))
		for i, pid := range photoIDs {
			ps[i] = domain.Photo{ID: pid, PostedAt: start.Add(time.Duration(i) * time.Hour)}
		}
		photos.PutTripCollection(id, ps)
		trips.SetPhotoCount(id, len(ps))
	}

	add(tripA, day(2023, time.May, 1), "Spain", false, "p-a1", "p-a2")
	add(tripB, day(2023, time.August, 1), "Italy", true, "p-b1")
	add(tripC, day(2023, time.October, 1), "France", false, "p-c1", "p-c2", "p-c3")

	return NewService(trips, photos, nil), trips, photos
}

func TestService_OpenTrip(t *testing.T) {
	t.Parallel()
	svc, _, _ := newFixture(t)
	ctx := context.Background()

	if err := svc.OpenTrip(ctx, tripC, OpenAtLast); err != nil {
		t.Fatalf("OpenTrip: %v", err)
	}
	if !svc.Session().IsOpen() || svc.Session().Index() != 2 {
		t.Fatalf("unexpected session state: open=%v index=%d", svc.Session().IsOpen(), svc.Session().Index())
	}

	err := svc.OpenTrip(ctx, "aaaaaaaa-0000-4000-8000-00000000ffff", 0)
	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Status != 404 || appErr.Code != "COLLECTION_NOT_FOUND" {
		t.Fatalf("expected 404 COLLECTION_NOT_FOUND, got %v", err)
	}
}

func TestService_AdvanceCommitsIntoNeighbor(t *testing.T) {
	t.Parallel()
	svc, _, _ := newFixture(t)
	ctx := context.Background()

	// A visitor session: the hidden Italy trip is not a neighbor, so from
	// Spain's last photo the peek goes straight to France.
	if err := svc.OpenTrip(ctx, tripA, OpenAtLast); err != nil {
		t.Fatalf("OpenTrip: %v", err)
	}

	tr, err := svc.Advance(ctx, Next)
	if err != nil {
		t.Fatalf("Advance (peek): %v", err)
	}
	if tr.Move != MovePeeked || tr.Peek == nil || tr.Peek.Neighbor.ID != domain.TripID(tripC) {
		t.Fatalf("expected peek at France trip, got %+v", tr)
	}

	tr, err = svc.Advance(ctx, Next)
	if err != nil {
		t.Fatalf("Advance (commit): %v", err)
	}
	if tr.Move != MoveCommitted {
		t.Fatalf("expected commit, got %+v", tr)
	}
	if got := svc.Session().Collection().Key.TripID; got != domain.TripID(tripC) {
		t.Fatalf("session shows %s, want %s", got, tripC)
	}
	if svc.Session().Index() != 0 {
		t.Fatalf("forward entry must land on first photo, got %d", svc.Session().Index())
	}
}

func TestService_PrivilegedSeesHiddenNeighbor(t *testing.T) {
	t.Parallel()
	svc, _, _ := newFixture(t)
	ctx := context.Background()

	svc.SetPrivileged(true)
	if err := svc.OpenTrip(ctx, tripA, OpenAtLast); err != nil {
		t.Fatalf("OpenTrip: %v", err)
	}
	tr, err := svc.Advance(ctx, Next)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if tr.Move != MovePeeked || tr.Peek.Neighbor.ID != domain.TripID(tripB) {
		t.Fatalf("owner peek should offer hidden trip, got %+v", tr)
	}
}

func TestService_CountryAlbumWraps(t *testing.T) {
	t.Parallel()
	svc, _, _ := newFixture(t)
	ctx := context.Background()

	if err := svc.OpenCountry(ctx, "Spain"); err != nil {
		t.Fatalf("OpenCountry: %v", err)
	}
	tr, err := svc.Advance(ctx, Prev)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if tr.Move != MoveWrapped {
		t.Fatalf("country album must wrap, got %+v", tr)
	}
}

func TestService_SetCoverUpdatesDisplayedCollection(t *testing.T) {
	t.Parallel()
	svc, _, _ := newFixture(t)
	ctx := context.Background()

	if err := svc.OpenTrip(ctx, tripA, 0); err != nil {
		t.Fatalf("OpenTrip: %v", err)
	}
	if err := svc.SetCover(ctx, tripA, "p-a2"); err != nil {
		t.Fatalf("SetCover: %v", err)
	}
	col := svc.Session().Collection()
	if col.Photos[0].Cover || !col.Photos[1].Cover {
		t.Fatalf("displayed collection not updated: %+v", col.Photos)
	}

	err := svc.SetCover(ctx, tripA, "missing")
	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Code != "PHOTO_NOT_FOUND" {
		t.Fatalf("expected PHOTO_NOT_FOUND, got %v", err)
	}
}

func TestService_SetHiddenRefreshesNeighbors(t *testing.T) {
	t.Parallel()
	svc, _, _ := newFixture(t)
	ctx := context.Background()

	if err := svc.OpenTrip(ctx, tripA, OpenAtLast); err != nil {
		t.Fatalf("OpenTrip: %v", err)
	}
	// Hiding France removes the only visible neighbor; the boundary falls
	// back to wrap-around.
	if err := svc.SetHidden(ctx, tripC, true); err != nil {
		t.Fatalf("SetHidden: %v", err)
	}
	tr, err := svc.Advance(ctx, Next)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if tr.Move != MoveWrapped || tr.Index != 0 {
		t.Fatalf("expected wrap after neighbor hidden, got %+v", tr)
	}

	err = svc.SetHidden(ctx, "aaaaaaaa-0000-4000-8000-00000000ffff", true)
	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Code != "TRIP_NOT_FOUND" {
		t.Fatalf("expected TRIP_NOT_FOUND, got %v", err)
	}
}
