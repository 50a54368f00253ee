package timeline

import (
	"math"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func item(id string, t time.Time) TimedItem {
	return TimedItem{ID: id, Date: t, Label: id}
}

func TestBuildThreeItemsNoCollision(t *testing.T) {
	items := []TimedItem{
		item("a.md", date(2023, 1, 1)),
		item("b.md", date(2023, 6, 1)),
		item("c.md", date(2024, 1, 1)),
	}

	l := Build(items, Options{Threshold: 2})

	if len(l.Items) != 3 {
		t.Fatalf("got %d items, want 3", len(l.Items))
	}

	// Descending: most recent first
	if l.Items[0].ID != "c.md" || l.Items[1].ID != "b.md" || l.Items[2].ID != "a.md" {
		t.Errorf("order = %s, %s, %s", l.Items[0].ID, l.Items[1].ID, l.Items[2].ID)
	}

	total := date(2024, 1, 1).Sub(date(2023, 1, 1))
	wantMid := float64(date(2024, 1, 1).Sub(date(2023, 6, 1))) / float64(total) * 100

	checks := []struct {
		pos  float64
		want float64
	}{
		{l.Items[0].Position, 0},
		{l.Items[1].Position, wantMid},
		{l.Items[2].Position, 100},
	}
	for i, c := range checks {
		if math.Abs(c.pos-c.want) > 1e-9 {
			t.Errorf("item %d position = %f, want %f", i, c.pos, c.want)
		}
	}

	// No collisions, so positions are untouched and sides alternate L,R,L
	wantSides := []Side{SideLeft, SideRight, SideLeft}
	for i, s := range wantSides {
		if l.Items[i].Side != s {
			t.Errorf("item %d side = %s, want %s", i, l.Items[i].Side, s)
		}
	}
}

func TestBuildIdenticalDates(t *testing.T) {
	items := []TimedItem{
		item("first.md", date(2023, 1, 1)),
		item("second.md", date(2023, 1, 1)),
	}

	l := Build(items, Options{Threshold: 2})

	// Degenerate range: raw positions are both 0; the second item is
	// nudged to exactly one threshold away.
	if l.Items[0].Position != 0 {
		t.Errorf("first position = %f, want 0", l.Items[0].Position)
	}
	if l.Items[1].Position != 2 {
		t.Errorf("second position = %f, want 2", l.Items[1].Position)
	}

	// Stable sort keeps input order for equal dates
	if l.Items[0].ID != "first.md" {
		t.Errorf("equal dates should keep input order, got %s first", l.Items[0].ID)
	}
}

func TestBuildDegenerateRangeAllZero(t *testing.T) {
	shared := date(2022, 7, 4)
	items := []TimedItem{
		item("a.md", shared),
		item("b.md", shared),
		item("c.md", shared),
	}

	l := Build(items, Options{Threshold: 2})

	// Every raw candidate is 0 (no division error); resolved positions
	// step away by one threshold each.
	want := []float64{0, 2, 4}
	for i, w := range want {
		if l.Items[i].Position != w {
			t.Errorf("item %d position = %f, want %f", i, l.Items[i].Position, w)
		}
	}
	if l.Range.Earliest != l.Range.Latest {
		t.Error("range should be degenerate")
	}
}

func TestPositionBounds(t *testing.T) {
	items := []TimedItem{
		item("a.md", date(2020, 1, 1)),
		item("b.md", date(2021, 3, 14)),
		item("c.md", date(2022, 6, 2)),
		item("d.md", date(2023, 9, 30)),
		item("e.md", date(2024, 12, 25)),
	}

	l := Build(items, Options{})

	for _, it := range l.Items {
		if it.Position < 0 || it.Position > 100 {
			t.Errorf("%s position %f out of [0,100]", it.ID, it.Position)
		}
	}
}

func TestCollisionSeparation(t *testing.T) {
	// A dense cluster near the top of the axis
	items := []TimedItem{
		item("a.md", date(2024, 1, 1)),
		item("b.md", date(2024, 1, 2)),
		item("c.md", date(2024, 1, 3)),
		item("d.md", date(2024, 1, 4)),
		item("e.md", date(2023, 1, 1)),
	}

	l := Build(items, Options{Threshold: 2})

	for i, a := range l.Items {
		for _, b := range l.Items[i+1:] {
			if a.Position > 100 || b.Position > 100 {
				continue // documented overflow case
			}
			if math.Abs(a.Position-b.Position) < 2 {
				t.Errorf("%s (%f) and %s (%f) closer than threshold",
					a.ID, a.Position, b.ID, b.Position)
			}
		}
	}
}

func TestCollisionOverflowAccepted(t *testing.T) {
	// More same-date items than the axis can hold at threshold 30:
	// resolution walks past 100 and stops incrementing.
	shared := date(2023, 5, 5)
	items := []TimedItem{
		item("a.md", shared),
		item("b.md", shared),
		item("c.md", shared),
		item("d.md", shared),
		item("e.md", shared),
	}

	l := Build(items, Options{Threshold: 30})

	want := []float64{0, 30, 60, 90, 120}
	for i, w := range want {
		if l.Items[i].Position != w {
			t.Errorf("item %d position = %f, want %f", i, l.Items[i].Position, w)
		}
	}

	overflowed := l.Items[4].Position
	if overflowed <= 100 {
		t.Errorf("expected overflow above 100, got %f", overflowed)
	}
}

func TestMonotonicWithoutCollisions(t *testing.T) {
	items := []TimedItem{
		item("a.md", date(2020, 1, 1)),
		item("b.md", date(2021, 1, 1)),
		item("c.md", date(2022, 1, 1)),
		item("d.md", date(2023, 1, 1)),
	}

	l := Build(items, Options{Threshold: 2})

	for i := 1; i < len(l.Items); i++ {
		if l.Items[i-1].Position > l.Items[i].Position {
			t.Errorf("positions not monotonic at %d: %f > %f",
				i, l.Items[i-1].Position, l.Items[i].Position)
		}
	}
}

func TestBuildAscending(t *testing.T) {
	items := []TimedItem{
		item("new.md", date(2024, 1, 1)),
		item("old.md", date(2020, 1, 1)),
	}

	l := Build(items, Options{Ascending: true})

	if l.Items[0].ID != "old.md" {
		t.Errorf("ascending layout should start with the oldest item, got %s", l.Items[0].ID)
	}
	if l.Items[0].Position != 0 || l.Items[1].Position != 100 {
		t.Errorf("positions = %f, %f", l.Items[0].Position, l.Items[1].Position)
	}
}

func TestYearMarkers(t *testing.T) {
	items := []TimedItem{
		item("a.md", date(2021, 6, 1)),
		item("b.md", date(2023, 3, 1)),
	}

	l := Build(items, Options{})

	if len(l.Markers) != 3 {
		t.Fatalf("got %d markers, want 3 (2021..2023)", len(l.Markers))
	}
	for i, year := range []int{2021, 2022, 2023} {
		if l.Markers[i].Year != year {
			t.Errorf("marker %d year = %d, want %d", i, l.Markers[i].Year, year)
		}
		if l.Markers[i].Position < 0 || l.Markers[i].Position > 100 {
			t.Errorf("marker %d position %f out of [0,100]", i, l.Markers[i].Position)
		}
	}

	// Jan 1 2021 predates the earliest item, so its marker clamps to 100
	if l.Markers[0].Position != 100 {
		t.Errorf("out-of-range marker should clamp to 100, got %f", l.Markers[0].Position)
	}
}

func TestBuildEmpty(t *testing.T) {
	l := Build(nil, Options{})
	if len(l.Items) != 0 || len(l.Markers) != 0 {
		t.Errorf("empty batch should produce empty layout: %+v", l)
	}
}

func TestBuildDeterministic(t *testing.T) {
	items := []TimedItem{
		item("a.md", date(2023, 1, 1)),
		item("b.md", date(2023, 1, 1)),
		item("c.md", date(2023, 2, 1)),
	}

	first := Build(items, Options{Threshold: 2})
	second := Build(items, Options{Threshold: 2})

	for i := range first.Items {
		if first.Items[i].Position != second.Items[i].Position {
			t.Errorf("run positions differ at %d", i)
		}
		if first.Items[i].ID != second.Items[i].ID {
			t.Errorf("run order differs at %d", i)
		}
	}
}

func TestRangeOf(t *testing.T) {
	items := []TimedItem{
		item("b.md", date(2022, 5, 1)),
		item("a.md", date(2020, 1, 1)),
		item("c.md", date(2024, 9, 9)),
	}

	r := RangeOf(items)
	if !r.Earliest.Equal(date(2020, 1, 1)) || !r.Latest.Equal(date(2024, 9, 9)) {
		t.Errorf("range = %v .. %v", r.Earliest, r.Latest)
	}

	if !RangeOf(nil).Earliest.IsZero() {
		t.Error("empty batch should yield zero range")
	}
}
