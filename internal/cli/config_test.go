package cli

import (
	"testing"

	apperrors "github.com/irfanahm3d/obsidian-timeline/pkg/errors"
	"github.com/irfanahm3d/obsidian-timeline/pkg/settings"
)

func TestApplySetting(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
	}{
		{"tag", "#history", false},
		{"tag", "", true},
		{"date-property", "created_at", false},
		{"search-in", "metadata", false},
		{"search-in", "everywhere", true},
		{"threshold", "3.5", false},
		{"threshold", "-1", true},
		{"threshold", "abc", true},
		{"ascending", "true", false},
		{"ascending", "maybe", true},
		{"format", "json", false},
		{"format", "png", true},
		{"unknown", "x", true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := settings.Default()
			err := applySetting(&cfg, tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("applySetting(%q, %q) error = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestApplySettingEmptyTagCode(t *testing.T) {
	cfg := settings.Default()
	err := applySetting(&cfg, "tag", "")
	if !apperrors.Is(err, apperrors.ErrCodeInvalidTag) {
		t.Errorf("error code = %v, want %v", apperrors.GetCode(err), apperrors.ErrCodeInvalidTag)
	}
}

func TestApplySettingUpdatesValue(t *testing.T) {
	cfg := settings.Default()
	if err := applySetting(&cfg, "threshold", "5"); err != nil {
		t.Fatal(err)
	}
	if cfg.Threshold != 5 {
		t.Errorf("Threshold = %v, want 5", cfg.Threshold)
	}

	if err := applySetting(&cfg, "search-in", "inline"); err != nil {
		t.Fatal(err)
	}
	if cfg.SearchIn != "inline" {
		t.Errorf("SearchIn = %q, want inline", cfg.SearchIn)
	}
}

func TestDefaultOptionsFromSettings(t *testing.T) {
	dir := t.TempDir()
	store, err := settings.NewStore(dir + "/config.toml")
	if err != nil {
		t.Fatal(err)
	}
	cfg := settings.Default()
	cfg.Tag = "#history"
	cfg.Profile = settings.ProfileCreated
	cfg.Threshold = 4
	if err := store.Save(cfg); err != nil {
		t.Fatal(err)
	}

	c := New(testWriter{}, LogInfo)
	c.ConfigPath = store.Path()

	opts := c.defaultOptions()
	if opts.Tag != "#history" {
		t.Errorf("Tag = %q, want #history", opts.Tag)
	}
	if opts.DateProperty != "creation_date" {
		t.Errorf("DateProperty = %q, want creation_date (created profile)", opts.DateProperty)
	}
	if opts.Threshold != 4 {
		t.Errorf("Threshold = %v, want 4", opts.Threshold)
	}
}

// testWriter discards log output in tests.
type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }
