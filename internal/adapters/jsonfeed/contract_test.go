package jsonfeed

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rembish/rembish-org-sub000/internal/adapters/contracttest"
	"github.com/rembish/rembish-org-sub000/internal/ports/out/photosource"
	"github.com/rembish/rembish-org-sub000/internal/ports/out/tripsource"
)

// encodeFixture renders a contracttest fixture in the export file shape.
func encodeFixture(t *testing.T, fx contracttest.Fixture) []byte {
	t.Helper()

	trips := make([]map[string]any, 0, len(fx.Trips))
	for _, tr := range fx.Trips {
		rec := map[string]any{
			"id":         string(tr.ID),
			"start_date": tr.StartDate.Format("2006-01-02"),
			"type":       string(tr.Type),
			"flights":    tr.Flights,
			"hidden":     tr.Hidden,
		}
		if tr.EndDate != nil {
			rec["end_date"] = tr.EndDate.Format("2006-01-02")
		}
		dests := make([]map[string]any, len(tr.Destinations))
		for i, d := range tr.Destinations {
			dests[i] = map[string]any{"name": d.Name, "partial": d.Partial}
		}
		rec["destinations"] = dests
		trips = append(trips, rec)
	}

	photos := make([]map[string]any, 0)
	for _, tr := range fx.Trips {
		for _, p := range fx.Photos[tr.ID] {
			rec := map[string]any{
				"id":        string(p.ID),
				"trip_id":   string(tr.ID),
				"posted_at": p.PostedAt.Format(time.RFC3339),
				"aerial":    p.Aerial,
				"cover":     p.Cover,
			}
			if p.Caption != nil {
				rec["caption"] = *p.Caption
			}
			if p.Destination != nil {
				rec["destination"] = *p.Destination
			}
			photos = append(photos, rec)
		}
	}

	raw, err := json.Marshal(map[string]any{"trips": trips, "photos": photos})
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return raw
}

func parseFixture(t *testing.T, fx contracttest.Fixture) *Feed {
	t.Helper()
	feed, err := Parse(encodeFixture(t, fx))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return feed
}

func TestContract_TripSource(t *testing.T) {
	contracttest.RunTripSource(t, func(t *testing.T, fx contracttest.Fixture) (tripsource.Source, func()) {
		t.Helper()
		return parseFixture(t, fx), nil
	})
}

func TestContract_PhotoSource(t *testing.T) {
	contracttest.RunPhotoSource(t, func(t *testing.T, fx contracttest.Fixture) (photosource.Source, func()) {
		t.Helper()
		return parseFixture(t, fx), nil
	})
}
