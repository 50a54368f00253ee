// Package pipeline provides the core timeline pipeline.
//
// This package implements the complete scan → layout → render pipeline
// shared by the CLI and the HTTP server. Centralizing it keeps behavior
// consistent across entry points.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Scan: load vault documents, select by tag, resolve dates
//  2. Layout: compute positions, sides, and year markers
//  3. Render: generate output in various formats (SVG, JSON, text)
//
// Each stage can be run independently or as part of the complete
// pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Vault:   "/path/to/notes",
//	    Tag:     "#timeline",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/irfanahm3d/obsidian-timeline/pkg/cache"
	"github.com/irfanahm3d/obsidian-timeline/pkg/render"
	"github.com/irfanahm3d/obsidian-timeline/pkg/timeline"
	"github.com/irfanahm3d/obsidian-timeline/pkg/vault"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultTag is the selection tag applied when none is configured.
	DefaultTag = "#timeline"

	// DefaultDateProperty is the frontmatter key holding document dates.
	DefaultDateProperty = "date"

	// DefaultWorkers is the number of concurrent vault readers.
	DefaultWorkers = 8
)

// DefaultSearchIn is the default tag search mode.
const DefaultSearchIn = string(timeline.SearchBoth)

// DefaultFormat is the default render format.
const DefaultFormat = render.FormatSVG

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the timeline pipeline.
// This struct supports JSON serialization for server requests.
type Options struct {
	// Scan options
	Vault        string `json:"vault"`
	Tag          string `json:"tag,omitempty"`
	DateProperty string `json:"date_property,omitempty"`
	SearchIn     string `json:"search_in,omitempty"`
	Workers      int    `json:"workers,omitempty"`
	Refresh      bool   `json:"refresh,omitempty"`

	// Layout options
	Threshold float64 `json:"threshold,omitempty"`
	Ascending bool    `json:"ascending,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Snippets bool     `json:"snippets,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this pipeline execution.
	RunID string

	// Items are the selected, dated documents.
	Items []timeline.TimedItem

	// Skipped lists documents that could not be read.
	Skipped []vault.SkippedFile

	// Layout is the computed layout.
	Layout timeline.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	DocCount   int
	ItemCount  int
	ScanTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ScanHit   bool // Whether scan results came from cache
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for
// the full pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForScan(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForScan checks required fields for scanning.
func (o *Options) ValidateForScan() error {
	if o.Vault == "" {
		return errVaultRequired
	}

	// Scan defaults
	if o.Tag == "" {
		o.Tag = DefaultTag
	}
	if o.DateProperty == "" {
		o.DateProperty = DefaultDateProperty
	}
	if o.SearchIn == "" {
		o.SearchIn = DefaultSearchIn
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return timeline.ValidateSearchMode(timeline.SearchMode(o.SearchIn))
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Threshold == 0 {
		o.Threshold = timeline.DefaultThreshold
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if o.Threshold < 0 {
		return errNegativeThreshold
	}
	return nil
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return render.ValidateFormats(o.Formats)
}

// LayoutOptions returns the layout engine options.
func (o *Options) LayoutOptions() timeline.Options {
	return timeline.Options{
		Threshold: o.Threshold,
		Ascending: o.Ascending,
	}
}

// ScanKeyOpts returns cache key options for the scan stage.
func (o *Options) ScanKeyOpts() cache.ScanKeyOpts {
	return cache.ScanKeyOpts{
		Tag:          o.Tag,
		DateProperty: o.DateProperty,
		SearchIn:     o.SearchIn,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Threshold: o.Threshold,
		Ascending: o.Ascending,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format}
}
