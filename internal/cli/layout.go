package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsonatlas/jsonatlas/pkg/graph"
	"github.com/jsonatlas/jsonatlas/pkg/layout"
	"github.com/jsonatlas/jsonatlas/pkg/pipeline"
)

// layoutCommand creates the layout command for computing node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output   string
		noCache  bool
		previous string
	)
	opts := pipeline.Options{}
	c.applyConfig(&opts)
	opts.SetLayoutDefaults()

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute node positions for a graph",
		Long: `Compute node positions for a graph.

The layout command takes a graph.json file (produced by 'build') and computes
node positions with the chosen engine. 'hierarchical' anchors the root and
spreads siblings in depth bands; 'force' runs a seeded spring simulation
until movement falls under the convergence threshold or the iteration cap.

With --previous, pinned positions from an earlier layout.json carry over
untouched and new nodes start near their parents.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkEngine(opts.Engine); err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache, previous)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	// Layout flags
	cmd.Flags().StringVarP(&opts.Engine, "engine", "e", opts.Engine, "layout engine: hierarchical (default), force")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", opts.Seed, "random seed for the force engine")
	cmd.Flags().IntVar(&opts.IterationCap, "iterations", opts.IterationCap, "iteration cap for the force engine")
	cmd.Flags().Float64Var(&opts.Threshold, "threshold", opts.Threshold, "convergence threshold for the force engine")
	cmd.Flags().StringVar(&previous, "previous", "", "layout.json with pinned positions to carry over")

	return cmd
}

// runLayout loads the graph, computes positions, and writes the layout file.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool, previous string) error {
	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	if previous != "" {
		prev, err := layout.ReadLayoutFile(previous)
		if err != nil {
			return fmt.Errorf("load previous layout %s: %w", previous, err)
		}
		opts.Previous = prev.Positions
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	logger := loggerFromContext(ctx)
	opts.Logger = logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s layout...", opts.Engine))
	spinner.Start()

	prog := newProgress(logger)
	l, res, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Laid out %d nodes in %d iterations", g.NodeCount(), res.Iterations))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	if err := layout.WriteLayoutFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(g.NodeCount(), g.EdgeCount(), cacheHit)
	if res.State == layout.StateIterationCapReached {
		printWarning("Iteration cap reached after %d iterations; positions are best-effort", res.Iterations)
	}
	printNewline()
	printNextStep("Render", appName+" render "+input)

	return nil
}
