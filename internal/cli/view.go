package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	apperrors "github.com/irfanahm3d/obsidian-timeline/pkg/errors"
	"github.com/irfanahm3d/obsidian-timeline/pkg/pipeline"
)

// viewCommand creates the view command for browsing the timeline in the terminal.
func (c *CLI) viewCommand() *cobra.Command {
	var noCache bool
	opts := c.defaultOptions()

	cmd := &cobra.Command{
		Use:   "view [vault]",
		Short: "Browse the timeline interactively in the terminal",
		Long: `Browse the timeline interactively in the terminal.

The view command runs the scan and layout stages, then opens an
interactive list of the positioned items. Use the arrow keys to move
and q to quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Vault = args[0]
			return c.runView(cmd.Context(), opts, noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVarP(&opts.Tag, "tag", "t", opts.Tag, "selection tag, including '#'")
	cmd.Flags().StringVar(&opts.SearchIn, "search-in", opts.SearchIn, "where to look for the tag: metadata, inline, both")
	cmd.Flags().Float64Var(&opts.Threshold, "threshold", opts.Threshold, "minimum separation between positions (percent)")
	cmd.Flags().BoolVar(&opts.Ascending, "ascending", opts.Ascending, "place the earliest item at 0% instead of the latest")

	return cmd
}

// runView runs scan and layout, then opens the interactive browser.
func (c *CLI) runView(ctx context.Context, opts pipeline.Options, noCache bool) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return apperrors.New(apperrors.ErrCodeNoRenderTarget, "view needs an interactive terminal; use 'timeline run' to write files instead")
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	scanRes, err := runner.Scan(ctx, opts)
	if err != nil {
		return err
	}
	if len(scanRes.Items) == 0 {
		printInfo("No documents tagged %s", opts.Tag)
		return nil
	}

	layout, err := runner.Layout(ctx, scanRes.Items, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	model := newTimelineModel(layout)
	program := tea.NewProgram(model, tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run viewer: %w", err)
	}
	return nil
}
