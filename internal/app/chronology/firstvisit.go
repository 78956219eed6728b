package chronology

import (
	"sort"
	"time"

	"github.com/rembish/rembish-org-sub000/internal/domain"
)

// Scope limits first-visit resolution to the whole history or to trips
// overlapping a single calendar year.
type Scope struct {
	year int
	all  bool
}

func ScopeAll() Scope { return Scope{all: true} }
func ScopeYear(year int) Scope { return Scope{year: year} }

// FirstVisitMap returns, per destination, the start date of the earliest
// scoped trip that visited it. Trips sharing a start date resolve to
// whichever comes first in the input (the sort is stable).
func FirstVisitMap(trips []domain.Trip, scope Scope) map[string]time.Time {
	scoped := make([]domain.Trip, 0, len(trips))
	for _, t := range trips {
		if scope.all || t.OverlapsYear(scope.year) {
			scoped = append(scoped, t)
		}
	}
	sort.SliceStable(scoped, func(i, j int) bool {
		return scoped[i].StartDate.Before(scoped[j].StartDate)
	})

	out := make(map[string]time.Time)
	for _, t := range scoped {
		for _, d := range t.Destinations {
			if _, ok := out[d.Name]; !ok {
				out[d.Name] = t.StartDate
			}
		}
	}
	return out
}

// NewThisYear reports whether dest is a "new destination" event for the
// selected year: visited that year for the first time, but not for the
// first time ever.
func NewThisYear(global, yearly map[string]time.Time, dest string) bool {
	g, inGlobal := global[dest]
	y, inYear := yearly[dest]
	return inGlobal && inYear && !g.Equal(y)
}
