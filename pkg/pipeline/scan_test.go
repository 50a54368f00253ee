package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeVault creates a temp vault populated with the given documents.
func writeVault(t *testing.T, docs map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range docs {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestScan(t *testing.T) {
	dir := writeVault(t, map[string]string{
		"kickoff.md": "---\ntitle: Project Kickoff\ndate: 2021-03-15\ntags: [timeline]\n---\n\nThe project began here.\n",
		"launch.md":  "---\ndate: 2023-03-15\ntags:\n  - timeline\n---\n\nShipped to production.\n",
		"diary.md":   "---\ndate: 2022-01-01\ntags: [journal]\n---\n\nNot part of the timeline.\n",
		"plain.md":   "Nothing to see here.\n",
	})

	res, err := Scan(context.Background(), Options{Vault: dir})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if res.DocCount != 4 {
		t.Errorf("DocCount = %d, want 4", res.DocCount)
	}
	if len(res.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(res.Items))
	}

	// Items come back in vault path order.
	if res.Items[0].ID != "kickoff.md" || res.Items[1].ID != "launch.md" {
		t.Errorf("item IDs = %q, %q", res.Items[0].ID, res.Items[1].ID)
	}
	if res.Items[0].Label != "Project Kickoff" {
		t.Errorf("Label = %q, want frontmatter title", res.Items[0].Label)
	}
	if res.Items[1].Label != "launch" {
		t.Errorf("Label = %q, want filename fallback", res.Items[1].Label)
	}
	want := time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC)
	if !res.Items[0].Date.Equal(want) {
		t.Errorf("Date = %v, want %v", res.Items[0].Date, want)
	}
	if res.Items[0].Snippet != "The project began here." {
		t.Errorf("Snippet = %q", res.Items[0].Snippet)
	}
}

func TestScanInlineTag(t *testing.T) {
	dir := writeVault(t, map[string]string{
		"inline.md": "A note mentioning #timeline in passing.\n",
		"bare.md":   "A note mentioning timeline without the hash.\n",
	})

	res, err := Scan(context.Background(), Options{Vault: dir, SearchIn: "inline"})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(res.Items) != 1 || res.Items[0].ID != "inline.md" {
		t.Fatalf("Items = %+v, want only inline.md", res.Items)
	}
	// No frontmatter date: falls back to the file timestamp.
	if res.Items[0].Date.IsZero() {
		t.Error("Date should fall back to the file timestamp")
	}
}

func TestScanCustomDateProperty(t *testing.T) {
	dir := writeVault(t, map[string]string{
		"note.md": "---\ncreation_date: 2020-06-01\ntags: [timeline]\n---\n\nBody.\n",
	})

	res, err := Scan(context.Background(), Options{Vault: dir, DateProperty: "creation_date"})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(res.Items) != 1 {
		t.Fatalf("len(Items) = %d, want 1", len(res.Items))
	}
	want := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	if !res.Items[0].Date.Equal(want) {
		t.Errorf("Date = %v, want %v", res.Items[0].Date, want)
	}
}

func TestScanMissingVault(t *testing.T) {
	_, err := Scan(context.Background(), Options{Vault: filepath.Join(t.TempDir(), "missing")})
	if err == nil {
		t.Error("expected error for missing vault")
	}
}

func TestDocSnippetTruncation(t *testing.T) {
	long := ""
	for i := 0; i < 50; i++ {
		long += "abcde"
	}
	got := docSnippet("\n\n" + long + "\n")
	if len([]rune(got)) != snippetMax+1 { // +1 for the ellipsis
		t.Errorf("snippet length = %d runes", len([]rune(got)))
	}
}
