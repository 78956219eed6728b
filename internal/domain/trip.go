package domain

import (
	"sort"
	"time"
)

type TripType string

const (
	TripTypeRegular    TripType = "REGULAR"
	TripTypeWork       TripType = "WORK"
	TripTypeRelocation TripType = "RELOCATION"
)

// PlaceVisit is one entry of a trip's ordered destination (or city) list.
// Partial marks a place that was only passed through rather than properly visited.
type PlaceVisit struct {
	Name    string
	Partial bool
}

// PersonRef points at a participant record owned by the identity collaborator.
type PersonRef struct {
	ID          string
	DisplayName string
}

type Trip struct {
	ID TripID

	// StartDate has date-only semantics (UTC midnight).
	StartDate time.Time
	// EndDate is nil for a single-day or still-ongoing trip.
	// Invariant (owned by the backing store): when set, EndDate >= StartDate.
	EndDate *time.Time

	Type TripType

	Destinations []PlaceVisit
	Cities       []PlaceVisit

	Participants      []PersonRef
	OtherParticipants *int

	// Flights is the number of flight legs taken during the trip.
	Flights int

	Hidden bool
}

// EffectiveEnd returns EndDate, falling back to StartDate for single-day trips.
func (t Trip) EffectiveEnd() time.Time {
	if t.EndDate != nil {
		return *t.EndDate
	}
	return t.StartDate
}

// SpanYears returns the inclusive calendar-year range the trip's dates touch.
// A Dec 28 - Jan 3 trip spans two years.
func (t Trip) SpanYears() (first, last int) {
	return t.StartDate.Year(), t.EffectiveEnd().Year()
}

// OverlapsYear reports whether year falls inside the trip's span years.
func (t Trip) OverlapsYear(year int) bool {
	first, last := t.SpanYears()
	return year >= first && year <= last
}

// Days returns the inclusive day count of the trip.
func (t Trip) Days() int {
	start := DateOnly(t.StartDate)
	end := DateOnly(t.EffectiveEnd())
	return int(end.Sub(start).Hours()/24) + 1
}

// DateOnly truncates an instant to UTC midnight of its calendar day.
func DateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// TripSummary is the lightweight trip projection used for gallery
// cross-navigation and neighbor previews.
type TripSummary struct {
	ID           TripID
	StartDate    time.Time
	EndDate      *time.Time
	Destinations []string
	PhotoCount   int
	Hidden       bool
}

// SortSummaries sorts summaries into the global gallery ordering:
// ascending by start date, ties broken by trip ID.
func SortSummaries(ts []TripSummary) {
	sort.SliceStable(ts, func(i, j int) bool {
		a, b := ts[i], ts[j]
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.Before(b.StartDate)
		}
		return string(a.ID) < string(b.ID)
	})
}
