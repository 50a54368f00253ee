// Package frontmatter extracts YAML frontmatter from Markdown documents.
//
// A frontmatter block is a leading section fenced by lines containing
// exactly "---":
//
//	---
//	date: 2024-03-01
//	tags: [timeline, work]
//	---
//	Body text...
//
// Extraction is tolerant: a missing or malformed block yields empty
// metadata and the full document body, never an error. Selection and
// date resolution have their own fallback paths for documents without
// usable metadata, so a broken header must not fail the whole scan.
package frontmatter

import (
	"strings"

	"gopkg.in/yaml.v3"
)

const fence = "---"

// Parse splits a document into frontmatter metadata and body.
//
// The metadata map is empty (never nil) when the document has no
// frontmatter block or the block is not valid YAML. The body has the
// block stripped; for documents without a block, body is the input
// unchanged.
func Parse(content string) (map[string]any, string) {
	meta := map[string]any{}

	rest, ok := strings.CutPrefix(content, fence)
	if !ok {
		return meta, content
	}
	// The opening fence must be a full line
	rest, ok = strings.CutPrefix(rest, "\n")
	if !ok {
		if rest, ok = strings.CutPrefix(rest, "\r\n"); !ok {
			return meta, content
		}
	}

	block, body, ok := cutFence(rest)
	if !ok {
		return meta, content
	}

	if err := yaml.Unmarshal([]byte(block), &meta); err != nil || meta == nil {
		// Malformed block: treat the document as having no metadata,
		// but still strip the block so the body is usable.
		return map[string]any{}, body
	}
	return meta, body
}

// cutFence finds the closing fence line and splits the text around it.
func cutFence(s string) (block, body string, ok bool) {
	offset := 0
	for {
		idx := strings.Index(s[offset:], fence)
		if idx < 0 {
			return "", "", false
		}
		idx += offset

		// Fence must start a line
		if idx > 0 && s[idx-1] != '\n' {
			offset = idx + len(fence)
			continue
		}
		// ... and end one (or end the document)
		after := s[idx+len(fence):]
		switch {
		case after == "":
			return s[:idx], "", true
		case strings.HasPrefix(after, "\n"):
			return s[:idx], after[1:], true
		case strings.HasPrefix(after, "\r\n"):
			return s[:idx], after[2:], true
		}
		offset = idx + len(fence)
	}
}

// String returns the metadata value for key as a string, if present.
func String(meta map[string]any, key string) (string, bool) {
	v, ok := meta[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Strings returns the metadata value for key as a list of strings.
// YAML lists, single strings, and comma-separated strings are all
// accepted; other shapes return nil.
func Strings(meta map[string]any, key string) []string {
	v, ok := meta[key]
	if !ok {
		return nil
	}
	switch val := v.(type) {
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	case string:
		parts := strings.Split(val, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	}
	return nil
}
