package timeline

import (
	"time"
)

// dateLayouts are the accepted formats for date property values,
// tried in order.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
}

// Resolver produces one timestamp per document.
//
// The cascade is: configured date property (when present and parseable)
// → the storage-provided creation time → the current time. Unparseable
// date values are treated as absent rather than producing an invalid
// timestamp, so downstream range computation only ever sees valid
// dates.
type Resolver struct {
	// DateProperty is the frontmatter key holding the document date.
	DateProperty string

	// Now is the clock used when no other source is available.
	// Defaults to time.Now.
	Now func() time.Time
}

// Resolve determines the timestamp for a document given its frontmatter
// metadata and the storage creation time.
func (r Resolver) Resolve(meta map[string]any, created time.Time) time.Time {
	if t, ok := r.fromMetadata(meta); ok {
		return t
	}
	if !created.IsZero() {
		return created
	}
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// fromMetadata reads and validates the date property.
// YAML decodes unquoted dates directly into time.Time; quoted values
// arrive as strings and are parsed against the accepted layouts.
func (r Resolver) fromMetadata(meta map[string]any) (time.Time, bool) {
	if r.DateProperty == "" {
		return time.Time{}, false
	}
	v, ok := meta[r.DateProperty]
	if !ok {
		return time.Time{}, false
	}

	switch val := v.(type) {
	case time.Time:
		return val, true
	case string:
		return ParseDate(val)
	}
	return time.Time{}, false
}

// ParseDate parses a date string against the accepted layouts.
// Returns false rather than an error: an unparseable value falls
// through the resolver cascade.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
