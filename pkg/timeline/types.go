package timeline

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Side is the horizontal placement of an item relative to the axis.
type Side string

// Sides alternate for visual balance, starting with Left.
const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// TimedItem is a document with a resolved date. Immutable once created.
type TimedItem struct {
	// ID is the unique document identifier (vault-relative path).
	ID string `json:"id"`

	// Date is the resolved timestamp used for positioning.
	Date time.Time `json:"date"`

	// Label is the display title.
	Label string `json:"label"`

	// Snippet is a short excerpt of the document body.
	Snippet string `json:"snippet,omitempty"`
}

// DateRange is the date span of an item batch.
type DateRange struct {
	Earliest time.Time `json:"earliest"`
	Latest   time.Time `json:"latest"`
}

// Span returns the duration covered by the range.
// Zero for a degenerate (single-date) range.
func (r DateRange) Span() time.Duration {
	return r.Latest.Sub(r.Earliest)
}

// RangeOf derives the date range from a batch of items.
// An empty batch yields a zero range.
func RangeOf(items []TimedItem) DateRange {
	if len(items) == 0 {
		return DateRange{}
	}
	r := DateRange{Earliest: items[0].Date, Latest: items[0].Date}
	for _, it := range items[1:] {
		if it.Date.Before(r.Earliest) {
			r.Earliest = it.Date
		}
		if it.Date.After(r.Latest) {
			r.Latest = it.Date
		}
	}
	return r
}

// PositionedItem is a TimedItem placed on the axis.
//
// Position is a percentage along the axis. It stays within [0,100]
// except when collision resolution overflows past the lower bound of
// the axis; overflow above 100 is accepted rather than failed (see
// adjustPosition).
type PositionedItem struct {
	TimedItem
	Position float64 `json:"position"`
	Side     Side    `json:"side"`
}

// YearMarker is a calendar-year boundary on the axis, positioned with
// the same function as items so the scale stays consistent.
type YearMarker struct {
	Year     int     `json:"year"`
	Position float64 `json:"position"`
}

// Layout is the complete output of the layout engine: the render input
// format consumed by all sinks.
type Layout struct {
	Items     []PositionedItem `json:"items"`
	Markers   []YearMarker     `json:"markers,omitempty"`
	Range     DateRange        `json:"range"`
	Threshold float64          `json:"threshold"`
	Ascending bool             `json:"ascending,omitempty"`
}

// =============================================================================
// Serialization
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if len(l.Items) == 0 {
		return Layout{}, fmt.Errorf("layout must contain items")
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read layout file: %w", err)
	}
	return UnmarshalLayout(data)
}

// MarshalItems serializes a batch of items to pretty-printed JSON bytes.
func MarshalItems(items []TimedItem) ([]byte, error) {
	return json.MarshalIndent(items, "", "  ")
}

// UnmarshalItems deserializes JSON bytes into a batch of items.
func UnmarshalItems(data []byte) ([]TimedItem, error) {
	var items []TimedItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	return items, nil
}

// WriteItemsFile writes a batch of items to a JSON file.
func WriteItemsFile(items []TimedItem, path string) error {
	data, err := MarshalItems(items)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadItemsFile reads a batch of items from a JSON file.
func ReadItemsFile(path string) ([]TimedItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read items file: %w", err)
	}
	return UnmarshalItems(data)
}
