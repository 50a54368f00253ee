package timeline

import (
	"math"
	"slices"
	"time"
)

// DefaultThreshold is the minimum separation between item positions,
// in percent of the axis.
const DefaultThreshold = 2.0

// Options configures layout computation.
type Options struct {
	// Threshold is the minimum separation between positions.
	// Zero or negative values fall back to DefaultThreshold.
	Threshold float64

	// Ascending flips the axis to chronological order (oldest at 0%).
	// The default places the most recent item at 0%.
	Ascending bool
}

// Build computes the layout for a batch of items.
//
// Items are sorted by date (descending by default, stable on ties so
// equal dates keep their input order), positioned along the axis,
// nudged apart where they collide, and assigned alternating sides
// starting with Left. Year markers cover every calendar year in the
// batch's range.
func Build(items []TimedItem, opts Options) Layout {
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	sorted := make([]TimedItem, len(items))
	copy(sorted, items)
	slices.SortStableFunc(sorted, func(a, b TimedItem) int {
		if opts.Ascending {
			return a.Date.Compare(b.Date)
		}
		return b.Date.Compare(a.Date)
	})

	r := RangeOf(sorted)

	positioned := make([]PositionedItem, 0, len(sorted))
	occupied := make([]float64, 0, len(sorted))
	for i, it := range sorted {
		candidate := positionAt(it.Date, r, opts.Ascending)
		resolved := adjustPosition(candidate, occupied, threshold)
		// Later items must see resolved positions, not raw candidates
		occupied = append(occupied, resolved)

		side := SideLeft
		if i%2 == 1 {
			side = SideRight
		}
		positioned = append(positioned, PositionedItem{
			TimedItem: it,
			Position:  resolved,
			Side:      side,
		})
	}

	return Layout{
		Items:     positioned,
		Markers:   yearMarkers(r, opts.Ascending),
		Range:     r,
		Threshold: threshold,
		Ascending: opts.Ascending,
	}
}

// Position maps a timestamp onto the default (descending) axis:
// the most recent date sits at 0%, the oldest at 100%.
func Position(t time.Time, r DateRange) float64 {
	return positionAt(t, r, false)
}

// positionAt computes the axis percentage for a timestamp.
// A degenerate range (single date) pins everything to 0.
func positionAt(t time.Time, r DateRange, ascending bool) float64 {
	total := r.Span()
	if total == 0 {
		return 0
	}

	var elapsed time.Duration
	if ascending {
		elapsed = t.Sub(r.Earliest)
	} else {
		elapsed = r.Latest.Sub(t)
	}

	pct := float64(elapsed) / float64(total) * 100
	return math.Min(math.Max(pct, 0), 100)
}

// adjustPosition resolves collisions greedily: while any occupied
// position lies closer than threshold, the candidate moves down the
// axis by threshold. Movement stops once the candidate passes 100; the
// overflow (a position above 100, possibly still colliding) is accepted
// rather than treated as an error. Resolution order is processing
// order, which makes the output deterministic for a fixed input
// ordering and threshold.
func adjustPosition(candidate float64, occupied []float64, threshold float64) float64 {
	for collides(candidate, occupied, threshold) {
		candidate += threshold
		if candidate > 100 {
			break
		}
	}
	return candidate
}

// collides reports whether any occupied position is closer than threshold.
func collides(candidate float64, occupied []float64, threshold float64) bool {
	for _, p := range occupied {
		if math.Abs(p-candidate) < threshold {
			return true
		}
	}
	return false
}

// yearMarkers produces one marker per calendar year in the range,
// inclusive, positioned at January 1 with the same scale as items.
func yearMarkers(r DateRange, ascending bool) []YearMarker {
	if r.Earliest.IsZero() {
		return nil
	}

	var markers []YearMarker
	for year := r.Earliest.Year(); year <= r.Latest.Year(); year++ {
		jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, r.Latest.Location())
		markers = append(markers, YearMarker{
			Year:     year,
			Position: positionAt(jan1, r, ascending),
		})
	}
	return markers
}
