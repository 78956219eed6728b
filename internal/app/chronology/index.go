// Package chronology derives read-only calendar views from a trip history:
// per-year trip buckets and first-visit resolution per destination.
// Everything here is pure; callers hand in already-loaded trips.
package chronology

import (
	"sort"

	"github.com/rembish/rembish-org-sub000/internal/domain"
)

// IndexByYear buckets trips by calendar year. A trip appears under every
// year its date range touches, so a Dec 28 - Jan 3 trip lands in both years.
func IndexByYear(trips []domain.Trip) map[int][]domain.Trip {
	out := make(map[int][]domain.Trip)
	for _, t := range trips {
		first, last := t.SpanYears()
		for y := first; y <= last; y++ {
			out[y] = append(out[y], t)
		}
	}
	return out
}

// YearsWithTrips returns the union of all trips' span years, newest first.
func YearsWithTrips(trips []domain.Trip) []int {
	seen := make(map[int]struct{})
	for _, t := range trips {
		first, last := t.SpanYears()
		for y := first; y <= last; y++ {
			seen[y] = struct{}{}
		}
	}
	out := make([]int, 0, len(seen))
	for y := range seen {
		out = append(out, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

// TripsOverlappingYear filters trips to those whose span includes year,
// preserving input order.
func TripsOverlappingYear(trips []domain.Trip, year int) []domain.Trip {
	out := make([]domain.Trip, 0)
	for _, t := range trips {
		if t.OverlapsYear(year) {
			out = append(out, t)
		}
	}
	return out
}
