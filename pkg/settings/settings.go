// Package settings persists user configuration as a TOML file.
//
// Settings live at ~/.config/timeline/config.toml (XDG-aware). They are
// loaded into an explicit value that callers pass into each pipeline
// invocation; nothing in this package is a mutable global.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
)

// Profiles select the default date property.
const (
	// ProfileDefault reads the document date from the "date" property.
	ProfileDefault = "default"

	// ProfileCreated reads it from "creation_date" instead, for vaults
	// that record an explicit creation stamp per note.
	ProfileCreated = "created"
)

// Settings is the persisted user configuration.
type Settings struct {
	// Tag is the selection tag, including its leading '#'.
	Tag string `toml:"tag"`

	// DateProperty is the frontmatter key holding the document date.
	// Empty means "use the profile default".
	DateProperty string `toml:"date_property,omitempty"`

	// Profile picks the date property default: "default" or "created".
	Profile string `toml:"profile,omitempty"`

	// SearchIn is where to look for the tag: metadata, inline, or both.
	SearchIn string `toml:"search_in"`

	// Threshold is the minimum separation between positions (percent).
	Threshold float64 `toml:"threshold"`

	// Ascending flips the axis to chronological order.
	Ascending bool `toml:"ascending,omitempty"`

	// Format is the default render format.
	Format string `toml:"format,omitempty"`
}

// Default returns the settings used when no config file exists.
func Default() Settings {
	return Settings{
		Tag:       "#timeline",
		Profile:   ProfileDefault,
		SearchIn:  "both",
		Threshold: 2.0,
		Format:    "svg",
	}
}

// EffectiveDateProperty resolves the date property from the explicit
// setting or the profile default.
func (s Settings) EffectiveDateProperty() string {
	if s.DateProperty != "" {
		return s.DateProperty
	}
	if s.Profile == ProfileCreated {
		return "creation_date"
	}
	return "date"
}

// Store loads and saves settings at a fixed path.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a store at the given path.
// An empty path defaults to ~/.config/timeline/config.toml, honoring
// XDG_CONFIG_HOME.
func NewStore(path string) (*Store, error) {
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "config.toml")
	}
	return &Store{path: path}, nil
}

// Path returns the config file path.
func (s *Store) Path() string { return s.path }

// Load reads settings from disk, filling unset fields with defaults.
// A missing file yields the defaults without error.
func (s *Store) Load() (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := Default()
	_, err := toml.DecodeFile(s.path, &cfg)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("load settings %s: %w", s.path, err)
	}
	return cfg, nil
}

// Save writes settings to disk, creating the directory as needed.
func (s *Store) Save(cfg Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("write settings %s: %w", s.path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return nil
}

// configDir returns the config directory using the XDG standard.
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "timeline"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "timeline"), nil
}
