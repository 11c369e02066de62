package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsonatlas/jsonatlas/pkg/graph"
	"github.com/jsonatlas/jsonatlas/pkg/pipeline"
)

// buildCommand creates the build command for deriving graphs from documents.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		example bool
	)
	opts := pipeline.Options{}
	c.applyConfig(&opts)

	cmd := &cobra.Command{
		Use:   "build [document.json|.csv|.xlsx]",
		Short: "Derive a node/edge graph from a document",
		Long: `Derive a node/edge graph from a document.

The build command parses a JSON document (or a CSV/XLSX sheet, coerced to an
array of row objects) and derives the node/edge graph: one node per value,
type-colored, with stable path-hash IDs. The output is a graph.json file
that can be laid out with 'layout' or rendered directly with 'render'.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, document, err := loadInput(args, example)
			if err != nil {
				return err
			}
			opts.File = file
			opts.Document = document
			return c.runBuild(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.graph.json, or stdout for --example)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&example, "example", false, "build the bundled example document")
	cmd.Flags().IntVar(&opts.LabelLength, "label-length", opts.LabelLength, "truncate node labels to this many runes")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "rebuild even if cached")

	return cmd
}

// runBuild derives the graph and writes it as JSON.
func (c *CLI) runBuild(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	logger := loggerFromContext(ctx)
	opts.Logger = logger

	spinner := newSpinnerWithContext(ctx, "Building graph...")
	spinner.Start()

	prog := newProgress(logger)
	g, cacheHit, err := runner.BuildWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Build failed")
		return fmt.Errorf("build: %w", err)
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Built %d nodes and %d edges", g.NodeCount(), g.EdgeCount()))

	outputPath := output
	if outputPath == "" && opts.File != "" {
		base := strings.TrimSuffix(opts.File, filepath.Ext(opts.File))
		outputPath = base + ".graph.json"
	}

	if outputPath == "" {
		out, err := openOutput("")
		if err != nil {
			return err
		}
		defer out.Close()
		return graph.WriteGraph(g, out)
	}
	if err := graph.WriteGraphFile(g, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Graph built")
	printFile(outputPath)
	printStats(g.NodeCount(), g.EdgeCount(), cacheHit)
	printNewline()
	printNextStep("Compute layout", appName+" layout "+outputPath)

	return nil
}
