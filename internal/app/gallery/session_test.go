package gallery_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rembish/rembish-org-sub000/internal/app/gallery"
	"github.com/rembish/rembish-org-sub000/internal/domain"
)

func tripCollection(id domain.TripID, photos int) domain.Collection {
	c := domain.Collection{Key: domain.CollectionKey{Kind: domain.CollectionKindTrip, TripID: id}}
	for i := 0; i < photos; i++ {
		c.Photos = append(c.Photos, domain.Photo{ID: domain.MediaID(string(id) + "-p" + string(rune('a'+i)))})
	}
	return c
}

func summaries(ids ...domain.TripID) []domain.TripSummary {
	base := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	out := make([]domain.TripSummary, 0, len(ids))
	for i, id := range ids {
		out = append(out, domain.TripSummary{ID: id, StartDate: base.AddDate(0, i, 0), PhotoCount: 5})
	}
	return out
}

func TestSession_OpenValidation(t *testing.T) {
	t.Parallel()

	s := gallery.NewSession()
	require.ErrorIs(t, s.Open(tripCollection("t1", 0), 0), gallery.ErrEmptyCollection)
	assert.False(t, s.IsOpen())

	// Out-of-range indexes clamp; OpenAtLast resolves to len-1.
	require.NoError(t, s.Open(tripCollection("t1", 3), 99))
	assert.Equal(t, 2, s.Index())
	require.NoError(t, s.Open(tripCollection("t1", 3), gallery.OpenAtLast))
	assert.Equal(t, 2, s.Index())
	require.NoError(t, s.Open(tripCollection("t1", 3), -5))
	assert.Equal(t, 0, s.Index(), "negative non-sentinel indexes clamp to the first photo")
}

func TestSession_FullWrapReturnsToStart(t *testing.T) {
	t.Parallel()

	s := gallery.NewSession()
	require.NoError(t, s.Open(tripCollection("t1", 5), 2))

	// No neighbors loaded: advancing len times is a full cycle.
	for i := 0; i < 5; i++ {
		tr := s.Advance(gallery.Next)
		assert.NotEqual(t, gallery.MovePeeked, tr.Move)
	}
	assert.Equal(t, 2, s.Index())

	for i := 0; i < 5; i++ {
		s.Advance(gallery.Prev)
	}
	assert.Equal(t, 2, s.Index())
}

func TestSession_PeekAtBoundaryInsteadOfWrap(t *testing.T) {
	t.Parallel()

	s := gallery.NewSession()
	require.NoError(t, s.Open(tripCollection("t2", 5), gallery.OpenAtLast))
	s.SetNeighbors(summaries("t1", "t2", "t3"))

	tr := s.Advance(gallery.Next)
	require.Equal(t, gallery.MovePeeked, tr.Move)
	require.NotNil(t, tr.Peek)
	assert.Equal(t, domain.TripID("t3"), tr.Peek.Neighbor.ID)
	assert.Equal(t, 4, s.Index(), "peeking leaves the index untouched")

	// Opposite direction cancels the peek, back to Open at the same index.
	tr = s.Advance(gallery.Prev)
	assert.Equal(t, gallery.MovePeekCanceled, tr.Move)
	assert.Equal(t, 4, s.Index())
	_, peeking := s.Peeking()
	assert.False(t, peeking)

	// With the peek gone, prev steps normally.
	tr = s.Advance(gallery.Prev)
	assert.Equal(t, gallery.MoveStepped, tr.Move)
	assert.Equal(t, 3, s.Index())
}

func TestSession_BoundaryWithoutNeighborWraps(t *testing.T) {
	t.Parallel()

	s := gallery.NewSession()
	require.NoError(t, s.Open(tripCollection("t3", 4), gallery.OpenAtLast))
	// t3 is the newest trip: no next neighbor.
	s.SetNeighbors(summaries("t1", "t2", "t3"))

	tr := s.Advance(gallery.Next)
	assert.Equal(t, gallery.MoveWrapped, tr.Move)
	assert.Equal(t, 0, s.Index())

	// And backwards past the first photo peeks at t2.
	tr = s.Advance(gallery.Prev)
	require.Equal(t, gallery.MovePeeked, tr.Move)
	assert.Equal(t, domain.TripID("t2"), tr.Peek.Neighbor.ID)
}

func TestSession_CommitForwardOpensNeighborAtZero(t *testing.T) {
	t.Parallel()

	s := gallery.NewSession()
	require.NoError(t, s.Open(tripCollection("t1", 5), 4))
	s.SetNeighbors(summaries("t1", "t2"))

	tr := s.Advance(gallery.Next)
	require.Equal(t, gallery.MovePeeked, tr.Move)

	tr = s.Advance(gallery.Next)
	require.Equal(t, gallery.MoveCommitted, tr.Move)
	require.NotNil(t, tr.Load)
	assert.Equal(t, domain.TripID("t2"), tr.Load.Trip.ID)
	assert.Equal(t, 0, tr.Load.OpenAt)

	require.NoError(t, s.Apply(*tr.Load, tripCollection("t2", 3)))
	assert.Equal(t, 0, s.Index())
	assert.Equal(t, domain.TripID("t2"), s.Collection().Key.TripID)
}

func TestSession_CommitBackwardOpensNeighborAtLast(t *testing.T) {
	t.Parallel()

	s := gallery.NewSession()
	require.NoError(t, s.Open(tripCollection("t2", 5), 0))
	s.SetNeighbors(summaries("t1", "t2"))

	tr := s.Advance(gallery.Prev)
	require.Equal(t, gallery.MovePeeked, tr.Move)
	tr = s.Advance(gallery.Prev)
	require.Equal(t, gallery.MoveCommitted, tr.Move)
	assert.Equal(t, gallery.OpenAtLast, tr.Load.OpenAt)

	require.NoError(t, s.Apply(*tr.Load, tripCollection("t1", 3)))
	assert.Equal(t, 2, s.Index())
}

func TestSession_StaleLoadRejected(t *testing.T) {
	t.Parallel()

	s := gallery.NewSession()
	require.NoError(t, s.Open(tripCollection("t1", 2), gallery.OpenAtLast))
	s.SetNeighbors(summaries("t1", "t2", "t3"))

	s.Advance(gallery.Next) // peek t2
	tr := s.Advance(gallery.Next)
	require.Equal(t, gallery.MoveCommitted, tr.Move)
	stale := *tr.Load

	// A second confirmation supersedes the first request.
	tr2 := s.Advance(gallery.Next)
	require.Equal(t, gallery.MoveCommitted, tr2.Move)

	require.ErrorIs(t, s.Apply(stale, tripCollection("t2", 3)), gallery.ErrStaleFetch)
	assert.Equal(t, domain.TripID("t1"), s.Collection().Key.TripID, "stale apply must not move the session")

	// The superseding request still applies.
	require.NoError(t, s.Apply(*tr2.Load, tripCollection("t2", 3)))
	assert.Equal(t, domain.TripID("t2"), s.Collection().Key.TripID)
}

func TestSession_PeekCancelInvalidatesCommittedLoad(t *testing.T) {
	t.Parallel()

	s := gallery.NewSession()
	require.NoError(t, s.Open(tripCollection("t1", 2), gallery.OpenAtLast))
	s.SetNeighbors(summaries("t1", "t2"))

	s.Advance(gallery.Next) // peek t2
	tr := s.Advance(gallery.Next)
	require.Equal(t, gallery.MoveCommitted, tr.Move)

	// Backing out before the load resolves abandons the commit.
	cancel := s.Advance(gallery.Prev)
	require.Equal(t, gallery.MovePeekCanceled, cancel.Move)

	require.ErrorIs(t, s.Apply(*tr.Load, tripCollection("t2", 3)), gallery.ErrStaleFetch)
	assert.Equal(t, domain.TripID("t1"), s.Collection().Key.TripID, "the canceled load must not move the session")
	assert.Equal(t, 1, s.Index())

	// Escape cancels the same way.
	s.Advance(gallery.Next)
	tr = s.Advance(gallery.Next)
	require.Equal(t, gallery.MoveCommitted, tr.Move)
	s.Cancel()

	require.ErrorIs(t, s.Apply(*tr.Load, tripCollection("t2", 3)), gallery.ErrStaleFetch)
	assert.Equal(t, domain.TripID("t1"), s.Collection().Key.TripID)
}

func TestSession_CloseInvalidatesInFlightLoad(t *testing.T) {
	t.Parallel()

	s := gallery.NewSession()
	require.NoError(t, s.Open(tripCollection("t1", 2), gallery.OpenAtLast))
	s.SetNeighbors(summaries("t1", "t2"))

	s.Advance(gallery.Next)
	tr := s.Advance(gallery.Next)
	require.Equal(t, gallery.MoveCommitted, tr.Move)

	s.Close()
	require.ErrorIs(t, s.Apply(*tr.Load, tripCollection("t2", 3)), gallery.ErrStaleFetch)
	assert.False(t, s.IsOpen(), "a late load result must not resurrect a closed session")
}

func TestSession_CancelSemantics(t *testing.T) {
	t.Parallel()

	s := gallery.NewSession()
	require.NoError(t, s.Open(tripCollection("t1", 3), gallery.OpenAtLast))
	s.SetNeighbors(summaries("t1", "t2"))

	s.Advance(gallery.Next)
	_, peeking := s.Peeking()
	require.True(t, peeking)

	// Escape while peeking cancels the peek only.
	s.Cancel()
	_, peeking = s.Peeking()
	assert.False(t, peeking)
	assert.True(t, s.IsOpen())
	assert.Equal(t, 2, s.Index())

	// Escape while open closes the session.
	s.Cancel()
	assert.False(t, s.IsOpen())
	assert.Equal(t, -1, s.Index())
}

func TestSession_CountryAlbumNeverPeeks(t *testing.T) {
	t.Parallel()

	s := gallery.NewSession()
	col := domain.Collection{
		Key:    domain.CollectionKey{Kind: domain.CollectionKindCountry, Country: "Spain"},
		Photos: []domain.Photo{{ID: "p1"}, {ID: "p2"}},
	}
	require.NoError(t, s.Open(col, gallery.OpenAtLast))
	s.SetNeighbors(summaries("t1", "t2"))

	tr := s.Advance(gallery.Next)
	assert.Equal(t, gallery.MoveWrapped, tr.Move)
	assert.Equal(t, 0, s.Index())
}

func TestSession_SetCoverExclusive(t *testing.T) {
	t.Parallel()

	s := gallery.NewSession()
	col := tripCollection("t1", 3)
	col.Photos[0].Cover = true
	require.NoError(t, s.Open(col, 0))

	s.SetCover(col.Photos[2].ID)

	got := s.Collection().Photos
	assert.False(t, got[0].Cover)
	assert.False(t, got[1].Cover)
	assert.True(t, got[2].Cover)
	assert.Equal(t, 0, s.Index(), "cover changes never move the session")
}

func TestSession_ScenarioNextNextCommitsNeighborAtZero(t *testing.T) {
	t.Parallel()

	// Five photos, opened at the last index, with a known next trip.
	s := gallery.NewSession()
	require.NoError(t, s.Open(tripCollection("t1", 5), 4))
	s.SetNeighbors(summaries("t1", "t2"))

	first := s.Advance(gallery.Next)
	second := s.Advance(gallery.Next)

	require.Equal(t, gallery.MovePeeked, first.Move)
	require.Equal(t, gallery.MoveCommitted, second.Move)
	assert.Equal(t, domain.TripID("t2"), second.Load.Trip.ID)
	assert.Equal(t, 0, second.Load.OpenAt)
}
