package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/irfanahm3d/obsidian-timeline/pkg/frontmatter"
	"github.com/irfanahm3d/obsidian-timeline/pkg/timeline"
	"github.com/irfanahm3d/obsidian-timeline/pkg/vault"
)

// snippetMax is the maximum snippet length in runes.
const snippetMax = 120

// ScanResult is the output of the scan stage.
type ScanResult struct {
	// Items are the selected documents with resolved dates, in vault
	// path order. Sorting by date happens in the layout stage.
	Items []timeline.TimedItem

	// Skipped lists documents that could not be read.
	Skipped []vault.SkippedFile

	// DocCount is the total number of documents examined.
	DocCount int
}

// Scan loads the vault and produces dated items for documents carrying
// the configured tag. Documents are read concurrently and fully joined
// here; everything downstream sees a complete batch.
func Scan(ctx context.Context, opts Options) (*ScanResult, error) {
	if err := opts.ValidateForScan(); err != nil {
		return nil, err
	}

	v, err := vault.NewDirVault(opts.Vault,
		vault.WithWorkers(opts.Workers),
		vault.WithLogger(opts.Logger))
	if err != nil {
		return nil, err
	}

	loaded, err := v.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load vault: %w", err)
	}

	selector := timeline.Selector{
		Tag:  opts.Tag,
		Mode: timeline.SearchMode(opts.SearchIn),
	}
	resolver := timeline.Resolver{DateProperty: opts.DateProperty}

	res := &ScanResult{
		Skipped:  loaded.Skipped,
		DocCount: len(loaded.Documents),
	}
	for _, doc := range loaded.Documents {
		meta, body := frontmatter.Parse(doc.Content)
		if !selector.Matches(meta, doc.Content) {
			continue
		}
		res.Items = append(res.Items, timeline.TimedItem{
			ID:      doc.Path,
			Date:    resolver.Resolve(meta, doc.CreatedAt),
			Label:   docLabel(doc.Path, meta),
			Snippet: docSnippet(body),
		})
	}

	return res, nil
}

// docLabel prefers the frontmatter title, falling back to the filename.
func docLabel(path string, meta map[string]any) string {
	if title, ok := frontmatter.String(meta, "title"); ok && title != "" {
		return title
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// docSnippet extracts the first non-empty body line, truncated.
func docSnippet(body string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		runes := []rune(line)
		if len(runes) > snippetMax {
			return string(runes[:snippetMax]) + "…"
		}
		return line
	}
	return ""
}
