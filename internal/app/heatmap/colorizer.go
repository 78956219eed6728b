// Package heatmap maps a destination's visit history to the visual encoding
// shared by the map and list views: visit frequency drives hue, visit
// recency drives lightness.
package heatmap

import (
	"fmt"
	"time"
)

// Encoding is an HSL triple. Hue is in degrees, Saturation and Lightness
// are fractions in [0, 1].
type Encoding struct {
	Hue        float64
	Saturation float64
	Lightness  float64
}

// CSS renders the encoding as a CSS hsl() value.
func (e Encoding) CSS() string {
	return fmt.Sprintf("hsl(%.0f, %.0f%%, %.0f%%)", e.Hue, e.Saturation*100, e.Lightness*100)
}

// Hue bands: a single visit sits at the cold anchor; repeated visits walk
// the hue toward the warm floor with diminishing sensitivity per band.
const (
	hueCold  = 210.0 // 1 visit
	hueBand1 = 150.0 // 5 visits
	hueBand2 = 90.0  // 15 visits
	hueBand3 = 45.0  // 30 visits
	hueFloor = 20.0

	saturation = 0.65

	lightnessOldest = 0.25
	lightnessNewest = 0.60

	neutralLightness = 0.85
)

// brightnessBaseline partitions history: visits before it all collapse to
// the darkest extreme, visits after it scale linearly up to the corpus's
// newest visit.
var brightnessBaseline = time.Date(2011, time.January, 1, 0, 0, 0, 0, time.UTC)

// ColorFor computes the encoding for a destination visited visitCount times,
// most recently on visitDate. corpusOldest and corpusNewest bound the visit
// dates across the whole history; a degenerate corpus (oldest == newest) is
// legal and yields the midpoint lightness.
func ColorFor(visitDate time.Time, visitCount int, corpusOldest, corpusNewest time.Time) Encoding {
	_ = corpusOldest // bounds documentation only; lightness anchors on the baseline
	return Encoding{
		Hue:        hueFor(visitCount),
		Saturation: saturation,
		Lightness:  lightnessFor(visitDate, corpusNewest),
	}
}

// Neutral is the fixed unsaturated encoding for unvisited entities.
func Neutral() Encoding {
	return Encoding{Hue: 0, Saturation: 0, Lightness: neutralLightness}
}

func hueFor(visitCount int) float64 {
	n := float64(visitCount)
	switch {
	case visitCount <= 1:
		return hueCold
	case visitCount <= 5:
		return hueCold - (n-1)*(hueCold-hueBand1)/4
	case visitCount <= 15:
		return hueBand1 - (n-5)*(hueBand1-hueBand2)/10
	case visitCount <= 30:
		return hueBand2 - (n-15)*(hueBand2-hueBand3)/15
	default:
		h := hueBand3 - (n - 30)
		if h < hueFloor {
			return hueFloor
		}
		return h
	}
}

func lightnessFor(visitDate, corpusNewest time.Time) float64 {
	if visitDate.Before(brightnessBaseline) {
		return lightnessOldest
	}
	span := corpusNewest.Sub(brightnessBaseline)
	if span <= 0 {
		return (lightnessOldest + lightnessNewest) / 2
	}
	frac := float64(visitDate.Sub(brightnessBaseline)) / float64(span)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return lightnessOldest + frac*(lightnessNewest-lightnessOldest)
}
