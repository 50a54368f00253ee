package cli

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/irfanahm3d/obsidian-timeline/pkg/pipeline"
)

func testServeRouter(t *testing.T) http.Handler {
	t.Helper()
	dir := t.TempDir()
	doc := "---\ntitle: Kickoff\ndate: 2021-03-15\ntags: [timeline]\n---\n\nThe beginning.\n"
	if err := os.WriteFile(filepath.Join(dir, "kickoff.md"), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(testWriter{}, LogInfo)
	runner := pipeline.NewRunner(nil, nil, c.Logger)
	t.Cleanup(func() { runner.Close() })

	return c.serveRouter(runner, pipeline.Options{Vault: dir})
}

func TestServeHealthz(t *testing.T) {
	router := testServeRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestServeTimelineJSON(t *testing.T) {
	router := testServeRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/timeline.json", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if rec.Header().Get("X-Run-Id") == "" {
		t.Error("missing X-Run-Id header")
	}
	if !strings.Contains(rec.Body.String(), "Kickoff") {
		t.Error("body should contain the document label")
	}
}

func TestServeTimelineSVG(t *testing.T) {
	router := testServeRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/timeline.svg", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<svg") {
		t.Error("body should be SVG")
	}
}

func TestServeBadThreshold(t *testing.T) {
	router := testServeRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/timeline.json?threshold=abc", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestServeBadSearchMode(t *testing.T) {
	router := testServeRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/timeline.json?search_in=bogus", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestServeNoMatches(t *testing.T) {
	router := testServeRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/timeline.json?tag=%23nothing", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestServeKeyer(t *testing.T) {
	if serveKeyer("file", "/vault") != nil {
		t.Error("file backend should use unscoped keys")
	}
	if serveKeyer("none", "/vault") != nil {
		t.Error("none backend should use unscoped keys")
	}

	a := serveKeyer("redis", "/vault-a")
	b := serveKeyer("redis", "/vault-b")
	if a == nil || b == nil {
		t.Fatal("redis backend should get a scoped keyer")
	}

	opts := pipeline.Options{Threshold: 2}
	keyA := a.LayoutKey("items-hash", opts.LayoutKeyOpts())
	keyB := b.LayoutKey("items-hash", opts.LayoutKeyOpts())
	if keyA == keyB {
		t.Error("layout keys for different vaults should not collide")
	}

	// Same vault yields the same scope across server restarts.
	if again := serveKeyer("redis", "/vault-a").LayoutKey("items-hash", opts.LayoutKeyOpts()); again != keyA {
		t.Errorf("scope not stable: %q vs %q", again, keyA)
	}
}

func TestRequestOptionsOverrides(t *testing.T) {
	base := pipeline.Options{Vault: "/v", Tag: "#timeline", Threshold: 2}
	req := httptest.NewRequest(http.MethodGet, "/timeline.svg?tag=%23history&threshold=5&ascending=true&refresh=true", nil)

	opts, err := requestOptions(base, req)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Tag != "#history" || opts.Threshold != 5 || !opts.Ascending || !opts.Refresh {
		t.Errorf("requestOptions() = %+v", opts)
	}
	// Base stays untouched for the next request.
	if base.Tag != "#timeline" || base.Threshold != 2 {
		t.Errorf("base mutated: %+v", base)
	}
}
