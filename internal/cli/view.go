package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jsonatlas/jsonatlas/pkg/pipeline"
	"github.com/jsonatlas/jsonatlas/pkg/view"
)

// viewCommand creates the view command for exploring a document in the terminal.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		noCache bool
		example bool
	)
	opts := pipeline.Options{}
	c.applyConfig(&opts)
	opts.SetLayoutDefaults()

	cmd := &cobra.Command{
		Use:   "view [document.json|.csv|.xlsx]",
		Short: "Explore a document graph interactively in the terminal",
		Long: `Explore a document graph interactively in the terminal.

The view command builds the graph and opens a tree explorer: navigate nodes,
expand and collapse containers, inspect paths and raw values, and trigger a
fresh layout. Without an argument it opens the bundled example document.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkEngine(opts.Engine); err != nil {
				return err
			}
			file, document, err := loadInput(args, example || len(args) == 0)
			if err != nil {
				return err
			}
			opts.File = file
			opts.Document = document
			return c.runView(cmd.Context(), opts, noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&example, "example", false, "explore the bundled example document")
	cmd.Flags().StringVarP(&opts.Engine, "engine", "e", opts.Engine, "layout engine: hierarchical (default), force")
	cmd.Flags().IntVar(&opts.LabelLength, "label-length", opts.LabelLength, "truncate node labels to this many runes")

	return cmd
}

// runView builds the graph, publishes it on a view surface, and runs the TUI.
func (c *CLI) runView(ctx context.Context, opts pipeline.Options, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	g, err := runner.Build(ctx, opts)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}

	l, err := runner.ComputeLayout(ctx, g, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	engine, err := pipeline.NewEngine(opts)
	if err != nil {
		return err
	}
	surface := view.New(engine)
	surface.Publish(g, l.Positions)

	title := opts.Name
	if title == "" {
		title = opts.File
	}
	if title == "" {
		title = "example"
	}

	p := tea.NewProgram(NewTreeModel(surface, title), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run explorer: %w", err)
	}
	return nil
}
