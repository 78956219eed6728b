package chronology_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rembish/rembish-org-sub000/internal/app/chronology"
	"github.com/rembish/rembish-org-sub000/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	v := date(y, m, d)
	return &v
}

func TestIndexByYear_EmptyInput(t *testing.T) {
	t.Parallel()

	assert.Empty(t, chronology.IndexByYear(nil))
	assert.Empty(t, chronology.YearsWithTrips(nil))
	assert.Empty(t, chronology.TripsOverlappingYear(nil, 2023))
}

func TestIndexByYear_NewYearTripAppearsInBothYears(t *testing.T) {
	t.Parallel()

	trips := []domain.Trip{{
		ID:           "t1",
		StartDate:    date(2023, time.December, 29),
		EndDate:      datePtr(2024, time.January, 2),
		Destinations: []domain.PlaceVisit{{Name: "Thailand"}},
	}}

	byYear := chronology.IndexByYear(trips)
	require.Len(t, byYear, 2)
	require.Len(t, byYear[2023], 1)
	require.Len(t, byYear[2024], 1)
	assert.Equal(t, domain.TripID("t1"), byYear[2023][0].ID)

	assert.Equal(t, []int{2024, 2023}, chronology.YearsWithTrips(trips))

	assert.Len(t, chronology.TripsOverlappingYear(trips, 2023), 1)
	assert.Len(t, chronology.TripsOverlappingYear(trips, 2024), 1)
	assert.Empty(t, chronology.TripsOverlappingYear(trips, 2022))
}

func TestIndexByYear_SpanCoversInteriorYears(t *testing.T) {
	t.Parallel()

	// A relocation spanning three calendar years lands in each of them.
	trips := []domain.Trip{{
		ID:        "t1",
		StartDate: date(2021, time.November, 1),
		EndDate:   datePtr(2023, time.February, 1),
		Type:      domain.TripTypeRelocation,
	}}

	byYear := chronology.IndexByYear(trips)
	require.Len(t, byYear, 3)
	for y := 2021; y <= 2023; y++ {
		assert.Len(t, byYear[y], 1, "year %d", y)
		assert.True(t, trips[0].OverlapsYear(y), "year %d", y)
	}
	assert.False(t, trips[0].OverlapsYear(2020))
	assert.False(t, trips[0].OverlapsYear(2024))
}

func TestTripsOverlappingYear_PreservesInputOrder(t *testing.T) {
	t.Parallel()

	trips := []domain.Trip{
		{ID: "b", StartDate: date(2023, time.August, 1)},
		{ID: "a", StartDate: date(2023, time.March, 1)},
		{ID: "c", StartDate: date(2022, time.March, 1)},
	}
	got := chronology.TripsOverlappingYear(trips, 2023)
	require.Len(t, got, 2)
	assert.Equal(t, domain.TripID("b"), got[0].ID)
	assert.Equal(t, domain.TripID("a"), got[1].ID)
}
