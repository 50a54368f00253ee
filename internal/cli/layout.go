package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/irfanahm3d/obsidian-timeline/pkg/errors"
	"github.com/irfanahm3d/obsidian-timeline/pkg/pipeline"
	"github.com/irfanahm3d/obsidian-timeline/pkg/timeline"
)

// layoutCommand creates the layout command for computing timeline layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := c.defaultOptions()

	cmd := &cobra.Command{
		Use:   "layout [items.json]",
		Short: "Compute a timeline layout from dated items",
		Long: `Compute a timeline layout from dated items.

The layout command takes an items.json file (produced by 'scan') and
places each item on the 0-100% axis, nudging colliding positions apart
and alternating sides. The output is a layout.json file that can be
rendered with the 'render' command.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	cmd.Flags().Float64Var(&opts.Threshold, "threshold", opts.Threshold, "minimum separation between positions (percent)")
	cmd.Flags().BoolVar(&opts.Ascending, "ascending", opts.Ascending, "place the earliest item at 0% instead of the latest")

	return cmd
}

// runLayout loads the items, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	items, err := timeline.ReadItemsFile(input)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "load items %s", input)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	layout, cacheHit, err := runner.LayoutWithCacheInfo(ctx, items, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	if err := timeline.WriteLayoutFile(layout, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(0, len(layout.Items), cacheHit)
	printNewline()
	printNextStep("Render", "timeline render "+outputPath)

	return nil
}
