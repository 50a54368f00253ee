// Package cli implements the timeline command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/irfanahm3d/obsidian-timeline/pkg/buildinfo"
	"github.com/irfanahm3d/obsidian-timeline/pkg/cache"
	"github.com/irfanahm3d/obsidian-timeline/pkg/pipeline"
	"github.com/irfanahm3d/obsidian-timeline/pkg/settings"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "timeline"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath overrides the settings file location (used in tests).
	ConfigPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "timeline",
		Short:        "Timeline lays out tagged Obsidian notes on a date axis",
		Long:         `Timeline scans a vault of Markdown notes, selects the ones carrying a tag, resolves a date for each, and lays them out on a vertical 0-100% axis with collision avoidance.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.scanCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.runCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/timeline/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Settings Integration
// =============================================================================

// settingsStore opens the settings store, honoring ConfigPath.
func (c *CLI) settingsStore() (*settings.Store, error) {
	return settings.NewStore(c.ConfigPath)
}

// defaultOptions seeds pipeline options from the persisted settings, so
// flag defaults reflect the user's configuration. Flags then override
// field by field.
func (c *CLI) defaultOptions() pipeline.Options {
	cfg := settings.Default()
	if store, err := c.settingsStore(); err == nil {
		if loaded, err := store.Load(); err == nil {
			cfg = loaded
		} else {
			c.Logger.Warn("ignoring unreadable settings", "err", err)
		}
	}
	return pipeline.Options{
		Tag:          cfg.Tag,
		DateProperty: cfg.EffectiveDateProperty(),
		SearchIn:     cfg.SearchIn,
		Threshold:    cfg.Threshold,
		Ascending:    cfg.Ascending,
		Formats:      []string{cfg.Format},
	}
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.DefaultFormat}
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}
