package timeline

import (
	"strings"

	apperrors "github.com/irfanahm3d/obsidian-timeline/pkg/errors"
	"github.com/irfanahm3d/obsidian-timeline/pkg/frontmatter"
)

// SearchMode controls where the selector looks for the tag.
type SearchMode string

const (
	// SearchMetadata matches against the frontmatter tag field only.
	SearchMetadata SearchMode = "metadata"

	// SearchInline matches the literal tag token in the document body.
	SearchInline SearchMode = "inline"

	// SearchBoth checks metadata first, falling through to inline only
	// when the metadata check did not match.
	SearchBoth SearchMode = "both"
)

// ValidSearchModes is the set of supported search modes.
var ValidSearchModes = map[SearchMode]bool{
	SearchMetadata: true,
	SearchInline:   true,
	SearchBoth:     true,
}

// ValidateSearchMode checks that a search mode is valid.
func ValidateSearchMode(mode SearchMode) error {
	if !ValidSearchModes[mode] {
		return apperrors.New(apperrors.ErrCodeInvalidMode,
			"invalid search mode: %q (must be one of: metadata, inline, both)", mode)
	}
	return nil
}

// tagsKey is the frontmatter field holding document tags.
const tagsKey = "tags"

// Selector filters documents by tag membership.
//
// Metadata matching compares the normalized tag (leading '#' stripped)
// against the frontmatter tag list, case-insensitively. Inline matching
// is substring containment of the literal configured tag string,
// including its '#'. The asymmetry is inherited behavior: an inline
// "timeline" without the hash never matches the default "#timeline"
// tag, while the same value in frontmatter does.
type Selector struct {
	// Tag is the configured tag, usually with a leading '#'.
	Tag string

	// Mode selects where to search. Zero value defaults to SearchBoth.
	Mode SearchMode
}

// Matches reports whether a document with the given frontmatter
// metadata and raw content carries the selector's tag.
func (s Selector) Matches(meta map[string]any, content string) bool {
	mode := s.Mode
	if mode == "" {
		mode = SearchBoth
	}

	switch mode {
	case SearchMetadata:
		return s.matchesMetadata(meta)
	case SearchInline:
		return s.matchesInline(content)
	case SearchBoth:
		if s.matchesMetadata(meta) {
			return true
		}
		return s.matchesInline(content)
	}
	return false
}

// matchesMetadata checks the normalized tag against the frontmatter tag
// field, which may be a YAML list or a comma-separated string.
func (s Selector) matchesMetadata(meta map[string]any) bool {
	want := NormalizeTag(s.Tag)
	if want == "" {
		return false
	}
	for _, tag := range frontmatter.Strings(meta, tagsKey) {
		if strings.EqualFold(NormalizeTag(tag), want) {
			return true
		}
	}
	return false
}

// matchesInline checks for the literal configured tag in the body.
func (s Selector) matchesInline(content string) bool {
	if s.Tag == "" {
		return false
	}
	return strings.Contains(content, s.Tag)
}

// NormalizeTag strips a leading '#' and surrounding whitespace.
func NormalizeTag(tag string) string {
	return strings.TrimPrefix(strings.TrimSpace(tag), "#")
}
