package observability

import (
	"context"
	"testing"
	"time"
)

type countingPipelineHooks struct {
	NoopPipelineHooks
	scans int
}

func (h *countingPipelineHooks) OnScanStart(ctx context.Context, vault, tag string) {
	h.scans++
}

type countingCacheHooks struct {
	NoopCacheHooks
	hits int
}

func (h *countingCacheHooks) OnCacheHit(ctx context.Context, keyType string) {
	h.hits++
}

func TestDefaultsAreNoop(t *testing.T) {
	// Must not panic
	Pipeline().OnScanStart(context.Background(), "/vault", "#timeline")
	Pipeline().OnLayoutComplete(context.Background(), 3, time.Millisecond, nil)
	Cache().OnCacheMiss(context.Background(), "scan")
}

func TestSetPipelineHooks(t *testing.T) {
	h := &countingPipelineHooks{}
	SetPipelineHooks(h)
	defer SetPipelineHooks(nil)

	Pipeline().OnScanStart(context.Background(), "/vault", "#timeline")
	if h.scans != 1 {
		t.Errorf("scans = %d, want 1", h.scans)
	}
}

func TestSetCacheHooks(t *testing.T) {
	h := &countingCacheHooks{}
	SetCacheHooks(h)
	defer SetCacheHooks(nil)

	Cache().OnCacheHit(context.Background(), "layout")
	if h.hits != 1 {
		t.Errorf("hits = %d, want 1", h.hits)
	}
}

func TestSetNilRestoresNoop(t *testing.T) {
	SetPipelineHooks(nil)
	SetCacheHooks(nil)
	// Must not panic
	Pipeline().OnRenderStart(context.Background(), []string{"svg"})
	Cache().OnCacheSet(context.Background(), "artifact", 128)
}
