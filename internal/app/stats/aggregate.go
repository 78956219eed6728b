// Package stats rolls the trip history into per-year and per-month counts
// for the timeline view.
package stats

import (
	"sort"
	"time"

	"github.com/rembish/rembish-org-sub000/internal/app/chronology"
	"github.com/rembish/rembish-org-sub000/internal/domain"
)

// YearStats is one row of the timeline. Trip count, day count, work-trip
// count and flight count are attributed to the trip's start year even when
// the trip runs into the next one. MonthDays follows the calendar instead:
// each month bucket holds the days actually spent in that calendar month,
// so a New Year trip fills December here and January in the next year's row.
type YearStats struct {
	Year int `json:"year"`

	Trips     int `json:"trips"`
	Days      int `json:"days"`
	WorkTrips int `json:"work_trips"`
	Flights   int `json:"flights"`

	// NewCountries counts destinations whose first-ever visit started this year.
	NewCountries int `json:"new_countries"`

	// MonthDays holds day counts for January..December.
	MonthDays [12]int `json:"month_days"`
}

// Aggregate computes the timeline, newest year first. It is pure: calling
// it twice on the same input yields identical results, and no trips yield
// an empty slice.
func Aggregate(trips []domain.Trip) []YearStats {
	if len(trips) == 0 {
		return []YearStats{}
	}

	byYear := make(map[int]*YearStats)
	row := func(year int) *YearStats {
		ys, ok := byYear[year]
		if !ok {
			ys = &YearStats{Year: year}
			byYear[year] = ys
		}
		return ys
	}

	for _, t := range trips {
		ys := row(t.StartDate.Year())
		ys.Trips++
		ys.Days += t.Days()
		ys.Flights += t.Flights
		if t.Type == domain.TripTypeWork {
			ys.WorkTrips++
		}
		splitDaysByMonth(t, row)
	}

	for _, first := range chronology.FirstVisitMap(trips, chronology.ScopeAll()) {
		row(first.Year()).NewCountries++
	}

	out := make([]YearStats, 0, len(byYear))
	for _, ys := range byYear {
		out = append(out, *ys)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year > out[j].Year })
	return out
}

// splitDaysByMonth walks the trip's date range one calendar month at a time
// and credits each overlapped month with the days spent in it.
func splitDaysByMonth(t domain.Trip, row func(int) *YearStats) {
	cur := domain.DateOnly(t.StartDate)
	end := domain.DateOnly(t.EffectiveEnd())
	for !cur.After(end) {
		monthEnd := endOfMonth(cur)
		segEnd := monthEnd
		if end.Before(monthEnd) {
			segEnd = end
		}
		days := int(segEnd.Sub(cur).Hours()/24) + 1
		row(cur.Year()).MonthDays[cur.Month()-1] += days
		cur = monthEnd.AddDate(0, 0, 1)
	}
}

func endOfMonth(d time.Time) time.Time {
	firstOfNext := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1)
}
