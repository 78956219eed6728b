package heatmap_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rembish/rembish-org-sub000/internal/app/heatmap"
)

var (
	oldest = time.Date(2012, time.March, 1, 0, 0, 0, 0, time.UTC)
	newest = time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC)
)

func TestColorFor_HueMonotonicInVisitCount(t *testing.T) {
	t.Parallel()

	when := time.Date(2020, time.May, 1, 0, 0, 0, 0, time.UTC)
	prev := heatmap.ColorFor(when, 1, oldest, newest).Hue
	for count := 2; count <= 80; count++ {
		h := heatmap.ColorFor(when, count, oldest, newest).Hue
		assert.LessOrEqual(t, h, prev, "hue must not increase at count=%d", count)
		prev = h
	}
}

func TestColorFor_HueBandsDiminish(t *testing.T) {
	t.Parallel()

	when := newest
	step := func(count int) float64 {
		return heatmap.ColorFor(when, count, oldest, newest).Hue -
			heatmap.ColorFor(when, count+1, oldest, newest).Hue
	}
	// Per-visit hue movement shrinks band over band.
	assert.Greater(t, step(2), step(7))
	assert.Greater(t, step(7), step(20))
	assert.Greater(t, step(20), step(40))
}

func TestColorFor_HueClampedAtFloor(t *testing.T) {
	t.Parallel()

	when := newest
	h1 := heatmap.ColorFor(when, 200, oldest, newest).Hue
	h2 := heatmap.ColorFor(when, 500, oldest, newest).Hue
	assert.Equal(t, h1, h2, "hue must clamp for very large counts")
	assert.Greater(t, h1, 0.0)
}

func TestColorFor_LightnessRecency(t *testing.T) {
	t.Parallel()

	preBaseline := time.Date(2005, time.July, 1, 0, 0, 0, 0, time.UTC)
	ancient := heatmap.ColorFor(preBaseline, 1, preBaseline, newest)

	atNewest := heatmap.ColorFor(newest, 1, oldest, newest)
	between := heatmap.ColorFor(time.Date(2018, time.January, 1, 0, 0, 0, 0, time.UTC), 1, oldest, newest)

	// Anything before the baseline collapses to the darkest extreme.
	assert.Less(t, ancient.Lightness, between.Lightness)
	assert.Less(t, between.Lightness, atNewest.Lightness)
}

func TestColorFor_DegenerateCorpusDoesNotPanic(t *testing.T) {
	t.Parallel()

	// Single distinct visit date, equal to the corpus bounds.
	d := time.Date(2015, time.June, 1, 0, 0, 0, 0, time.UTC)
	e := heatmap.ColorFor(d, 3, d, d)
	assert.Greater(t, e.Lightness, 0.0)
	assert.Less(t, e.Lightness, 1.0)

	// Corpus collapsed onto the baseline itself: midpoint, not a division by zero.
	base := time.Date(2011, time.January, 1, 0, 0, 0, 0, time.UTC)
	mid := heatmap.ColorFor(base, 1, base, base)
	assert.InDelta(t, 0.425, mid.Lightness, 0.001)
}

func TestNeutralIsUnsaturated(t *testing.T) {
	t.Parallel()

	n := heatmap.Neutral()
	assert.Zero(t, n.Saturation)
	assert.Equal(t, "hsl(0, 0%, 85%)", n.CSS())
}

func TestEncodingCSS(t *testing.T) {
	t.Parallel()

	e := heatmap.Encoding{Hue: 210, Saturation: 0.65, Lightness: 0.25}
	assert.Equal(t, "hsl(210, 65%, 25%)", e.CSS())
}
