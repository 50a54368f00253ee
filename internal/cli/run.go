package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/irfanahm3d/obsidian-timeline/pkg/pipeline"
)

// runCommand creates the run command for the complete pipeline.
func (c *CLI) runCommand() *cobra.Command {
	var (
		output  string
		formats string
		noCache bool
	)
	opts := c.defaultOptions()

	cmd := &cobra.Command{
		Use:   "run [vault]",
		Short: "Scan, lay out, and render in one step",
		Long: `Scan, lay out, and render in one step.

The run command executes the complete pipeline: it scans the vault for
tagged documents, computes the timeline layout, and writes one artifact
per requested format. Equivalent to 'scan', 'layout', and 'render' in
sequence, with each stage cached independently.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Vault = args[0]
			opts.Formats = parseFormats(formats)
			return c.runPipeline(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "timeline", "output base name")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output formats, comma-separated: svg, json, txt")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass the scan cache")
	cmd.Flags().BoolVar(&opts.Snippets, "snippets", opts.Snippets, "include document snippets in the SVG")

	cmd.Flags().StringVarP(&opts.Tag, "tag", "t", opts.Tag, "selection tag, including '#'")
	cmd.Flags().StringVar(&opts.DateProperty, "date-property", opts.DateProperty, "frontmatter key holding the document date")
	cmd.Flags().StringVar(&opts.SearchIn, "search-in", opts.SearchIn, "where to look for the tag: metadata, inline, both")
	cmd.Flags().IntVar(&opts.Workers, "workers", pipeline.DefaultWorkers, "concurrent vault readers")
	cmd.Flags().Float64Var(&opts.Threshold, "threshold", opts.Threshold, "minimum separation between positions (percent)")
	cmd.Flags().BoolVar(&opts.Ascending, "ascending", opts.Ascending, "place the earliest item at 0% instead of the latest")

	return cmd
}

// runPipeline executes the full pipeline and writes all artifacts.
func (c *CLI) runPipeline(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Building timeline...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		if pipeline.IsNoMatches(err) {
			spinner.Stop()
			printInfo("No documents tagged %s", opts.Tag)
			return nil
		}
		spinner.StopWithError("Pipeline failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	for _, skip := range result.Skipped {
		printWarning("skipped %s: %v", skip.Path, skip.Err)
	}

	printSuccess("Timeline complete")
	for _, format := range opts.Formats {
		path := output + "." + format
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(result.Stats.DocCount, result.Stats.ItemCount, result.CacheInfo.ScanHit)
	printDetail("range: %s .. %s",
		result.Layout.Range.Earliest.Format("2006-01-02"),
		result.Layout.Range.Latest.Format("2006-01-02"))
	printNewline()
	printNextStep("Browse", "timeline view "+opts.Vault)

	return nil
}
