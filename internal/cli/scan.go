package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/irfanahm3d/obsidian-timeline/pkg/pipeline"
	"github.com/irfanahm3d/obsidian-timeline/pkg/timeline"
)

// scanCommand creates the scan command for collecting tagged documents.
func (c *CLI) scanCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := c.defaultOptions()

	cmd := &cobra.Command{
		Use:   "scan [vault]",
		Short: "Collect tagged documents from a vault",
		Long: `Collect tagged documents from a vault.

The scan command walks the vault directory, selects Markdown documents
carrying the configured tag, resolves a date for each, and writes the
dated items to an items.json file for the 'layout' command.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Vault = args[0]
			return c.runScan(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "items.json", "output file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass the scan cache")

	cmd.Flags().StringVarP(&opts.Tag, "tag", "t", opts.Tag, "selection tag, including '#'")
	cmd.Flags().StringVar(&opts.DateProperty, "date-property", opts.DateProperty, "frontmatter key holding the document date")
	cmd.Flags().StringVar(&opts.SearchIn, "search-in", opts.SearchIn, "where to look for the tag: metadata, inline, both")
	cmd.Flags().IntVar(&opts.Workers, "workers", pipeline.DefaultWorkers, "concurrent vault readers")

	return cmd
}

// runScan scans the vault and writes the dated items.
func (c *CLI) runScan(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Scanning vault...")
	spinner.Start()

	res, cacheHit, err := runner.ScanWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Scan failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	for _, skip := range res.Skipped {
		printWarning("skipped %s: %v", skip.Path, skip.Err)
	}

	if len(res.Items) == 0 {
		printInfo("No documents tagged %s", opts.Tag)
		return nil
	}

	if err := timeline.WriteItemsFile(res.Items, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Scan complete")
	printFile(output)
	printStats(res.DocCount, len(res.Items), cacheHit)
	printNewline()
	printNextStep("Layout", "timeline layout "+output)

	return nil
}
