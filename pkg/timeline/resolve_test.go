package timeline

import (
	"testing"
	"time"
)

func TestResolveFromMetadataString(t *testing.T) {
	r := Resolver{DateProperty: "date"}
	meta := map[string]any{"date": "2023-06-01"}

	got := r.Resolve(meta, date(2020, 1, 1))
	if !got.Equal(date(2023, 6, 1)) {
		t.Errorf("Resolve = %v, want metadata date", got)
	}
}

func TestResolveFromMetadataTime(t *testing.T) {
	// yaml.v3 decodes unquoted dates directly into time.Time
	r := Resolver{DateProperty: "date"}
	meta := map[string]any{"date": date(2023, 6, 1)}

	got := r.Resolve(meta, date(2020, 1, 1))
	if !got.Equal(date(2023, 6, 1)) {
		t.Errorf("Resolve = %v, want metadata date", got)
	}
}

func TestResolveFallsBackToCreated(t *testing.T) {
	r := Resolver{DateProperty: "date"}
	created := date(2021, 2, 3)

	tests := []struct {
		name string
		meta map[string]any
	}{
		{"property absent", map[string]any{}},
		{"unparseable value", map[string]any{"date": "next tuesday"}},
		{"wrong type", map[string]any{"date": 42}},
	}

	for _, tt := range tests {
		if got := r.Resolve(tt.meta, created); !got.Equal(created) {
			t.Errorf("%s: Resolve = %v, want creation time", tt.name, got)
		}
	}
}

func TestResolveFallsBackToNow(t *testing.T) {
	now := date(2025, 1, 1)
	r := Resolver{DateProperty: "date", Now: func() time.Time { return now }}

	got := r.Resolve(map[string]any{}, time.Time{})
	if !got.Equal(now) {
		t.Errorf("Resolve = %v, want injected now", got)
	}
}

func TestResolveCustomProperty(t *testing.T) {
	r := Resolver{DateProperty: "creation_date"}
	meta := map[string]any{
		"date":          "2020-01-01",
		"creation_date": "2022-12-31",
	}

	got := r.Resolve(meta, time.Time{})
	if !got.Equal(date(2022, 12, 31)) {
		t.Errorf("Resolve = %v, want configured property value", got)
	}
}

func TestParseDateLayouts(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"2023-06-01", true},
		{"2023-06-01T10:30:00Z", true},
		{"2023-06-01 10:30:00", true},
		{"2023-06-01 10:30", true},
		{"June 1st", false},
		{"", false},
		{"2023-13-45", false},
	}
	for _, tt := range tests {
		if _, ok := ParseDate(tt.in); ok != tt.ok {
			t.Errorf("ParseDate(%q) ok = %v, want %v", tt.in, ok, tt.ok)
		}
	}
}
