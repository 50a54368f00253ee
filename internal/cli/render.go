package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	apperrors "github.com/irfanahm3d/obsidian-timeline/pkg/errors"
	"github.com/irfanahm3d/obsidian-timeline/pkg/pipeline"
	"github.com/irfanahm3d/obsidian-timeline/pkg/timeline"
)

// renderCommand creates the render command for producing output artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output  string
		formats string
		noCache bool
	)
	opts := c.defaultOptions()

	cmd := &cobra.Command{
		Use:   "render [layout.json]",
		Short: "Render a computed layout to SVG, JSON, or text",
		Long: `Render a computed layout to SVG, JSON, or text.

The render command takes a layout.json file (produced by 'layout') and
writes one artifact per requested format. Formats are comma-separated:

  timeline render layout.json -f svg,json,txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formats)
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output base name (default: <input> without extension)")
	cmd.Flags().StringVarP(&formats, "format", "f", strings.Join(opts.Formats, ","), "output formats, comma-separated: svg, json, txt")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Snippets, "snippets", opts.Snippets, "include document snippets in the SVG")

	return cmd
}

// runRender loads the layout, renders artifacts, and writes them to disk.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	layout, err := timeline.ReadLayoutFile(input)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "load layout %s", input)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, layout, opts, uuid.NewString())
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	}

	printSuccess("Render complete")
	for _, format := range opts.Formats {
		path := base + "." + format
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(0, len(layout.Items), cacheHit)

	return nil
}
