package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/irfanahm3d/obsidian-timeline/pkg/cache"
	"github.com/irfanahm3d/obsidian-timeline/pkg/observability"
	"github.com/irfanahm3d/obsidian-timeline/pkg/timeline"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete scan → layout → render pipeline with caching.
//
// Zero matched documents terminate the run early with a NO_MATCHES
// error; callers should surface it as a notice rather than a failure
// (see IsNoMatches).
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}
	r.Logger.Debug("starting pipeline", "run_id", result.RunID, "vault", opts.Vault)

	// Stage 1: Scan
	scanStart := time.Now()
	scanRes, scanHit, err := r.ScanWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	result.Items = scanRes.Items
	result.Skipped = scanRes.Skipped
	result.Stats.ScanTime = time.Since(scanStart)
	result.Stats.DocCount = scanRes.DocCount
	result.Stats.ItemCount = len(scanRes.Items)
	result.CacheInfo.ScanHit = scanHit

	r.Logger.Info("scanned vault",
		"documents", scanRes.DocCount,
		"matched", len(scanRes.Items),
		"skipped", len(scanRes.Skipped),
		"duration", result.Stats.ScanTime)

	if len(scanRes.Items) == 0 {
		return nil, NoMatchesError(opts.Tag)
	}

	// Stage 2: Layout
	layoutStart := time.Now()
	layout, layoutHit, err := r.LayoutWithCacheInfo(ctx, scanRes.Items, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = layout
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"items", len(layout.Items),
		"markers", len(layout.Markers),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, layout, opts, result.RunID)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// scanCacheEntry is the serializable subset of a scan result.
// Skip reports carry errors, which do not round-trip; a cached scan
// means the skips were already reported when the entry was written.
type scanCacheEntry struct {
	Items    []timeline.TimedItem `json:"items"`
	DocCount int                  `json:"doc_count"`
}

// ScanWithCacheInfo scans the vault with caching and returns cache hit info.
func (r *Runner) ScanWithCacheInfo(ctx context.Context, opts Options) (*ScanResult, bool, error) {
	if err := opts.ValidateForScan(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	abs, err := filepath.Abs(opts.Vault)
	if err != nil {
		abs = opts.Vault
	}
	cacheKey := r.Keyer.ScanKey(cache.Hash([]byte(abs)), opts.ScanKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var entry scanCacheEntry
			if err := json.Unmarshal(data, &entry); err == nil {
				observability.Cache().OnCacheHit(ctx, "scan")
				return &ScanResult{Items: entry.Items, DocCount: entry.DocCount}, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "scan")
	}

	observability.Pipeline().OnScanStart(ctx, opts.Vault, opts.Tag)
	start := time.Now()
	res, err := Scan(ctx, opts)
	observability.Pipeline().OnScanComplete(ctx, opts.Vault, opts.Tag, itemCount(res), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if !opts.Refresh {
		if data, err := json.Marshal(scanCacheEntry{Items: res.Items, DocCount: res.DocCount}); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLScan)
			observability.Cache().OnCacheSet(ctx, "scan", len(data))
		}
	}

	return res, false, nil
}

// Scan is a convenience wrapper that discards the cache hit info.
func (r *Runner) Scan(ctx context.Context, opts Options) (*ScanResult, error) {
	res, _, err := r.ScanWithCacheInfo(ctx, opts)
	return res, err
}

// LayoutWithCacheInfo computes a layout with caching and returns cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, items []timeline.TimedItem, opts Options) (timeline.Layout, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return timeline.Layout{}, false, err
	}
	r.applyLogger(&opts)

	itemsData, err := timeline.MarshalItems(items)
	if err != nil {
		return timeline.Layout{}, false, fmt.Errorf("serialize items for cache key: %w", err)
	}
	cacheKey := r.Keyer.LayoutKey(cache.Hash(itemsData), opts.LayoutKeyOpts())

	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		cached, err := timeline.UnmarshalLayout(data)
		if err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return cached, true, nil
		}
		// If deserialization fails, fall through to recompute
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	observability.Pipeline().OnLayoutStart(ctx, len(items))
	start := time.Now()
	layout := timeline.Build(items, opts.LayoutOptions())
	observability.Pipeline().OnLayoutComplete(ctx, len(items), time.Since(start), nil)

	if data, err := timeline.MarshalLayout(layout); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}

	return layout, false, nil
}

// Layout is a convenience wrapper that discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, items []timeline.TimedItem, opts Options) (timeline.Layout, error) {
	layout, _, err := r.LayoutWithCacheInfo(ctx, items, opts)
	return layout, err
}

// RenderWithCacheInfo renders artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, layout timeline.Layout, opts Options, runID string) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	layoutData, err := timeline.MarshalLayout(layout)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := RenderFromLayout(layout, opts, runID)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, layout timeline.Layout, opts Options, runID string) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, layout, opts, runID)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func itemCount(res *ScanResult) int {
	if res == nil {
		return 0
	}
	return len(res.Items)
}
