package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsonatlas/jsonatlas/pkg/jsontree"
	"github.com/jsonatlas/jsonatlas/pkg/layout"
	"github.com/jsonatlas/jsonatlas/pkg/pipeline"
)

// renderCommand creates the render command for running the full pipeline.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
		example    bool
		download   bool
	)
	opts := pipeline.Options{}
	c.applyConfig(&opts)
	opts.SetLayoutDefaults()
	opts.SetRenderDefaults()

	cmd := &cobra.Command{
		Use:   "render [document.json|.csv|.xlsx]",
		Short: "Build, lay out, and render a document in one step",
		Long: `Build, lay out, and render a document in one step.

The render command runs the full pipeline: parse the document, derive the
node/edge graph, compute positions, and write one artifact per requested
format. 'html' produces a self-contained interactive viewer page; 'json'
produces a graph+layout snapshot that round-trips through 'layout'.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr, opts.Formats)
			if err := checkFormats(opts.Formats); err != nil {
				return err
			}
			if err := checkEngine(opts.Engine); err != nil {
				return err
			}
			file, document, err := loadInput(args, example)
			if err != nil {
				return err
			}
			opts.File = file
			opts.Document = document
			return c.runRender(cmd.Context(), opts, output, noCache, download)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&example, "example", false, "render the bundled example document")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "rebuild even if cached")

	// Layout flags
	cmd.Flags().StringVarP(&opts.Engine, "engine", "e", opts.Engine, "layout engine: hierarchical (default), force")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", opts.Seed, "random seed for the force engine")

	// Render flags
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, html, json, dot (comma-separated)")
	cmd.Flags().BoolVar(&opts.Dark, "dark", opts.Dark, "dark background theme")
	cmd.Flags().Float64Var(&opts.Scale, "scale", opts.Scale, "raster scale factor for PNG output")
	cmd.Flags().StringVar(&opts.Name, "name", opts.Name, "document title for artifacts")
	cmd.Flags().IntVar(&opts.LabelLength, "label-length", opts.LabelLength, "truncate node labels to this many runes")
	cmd.Flags().BoolVar(&download, "pretty-json", false, "also write the pretty-printed source document")

	return cmd
}

// runRender executes the pipeline and writes one artifact per format.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache, download bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	logger := loggerFromContext(ctx)
	opts.Logger = logger

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Rendered %d artifacts for %d nodes", len(result.Artifacts), result.Stats.NodeCount))

	base := basePath(output, opts.File)

	printSuccess("Render complete")
	allHit := result.CacheInfo.BuildHit && result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit
	if err := writeArtifacts(result.Artifacts, opts.Formats, base, allHit,
		result.Stats.NodeCount, result.Stats.EdgeCount); err != nil {
		return err
	}
	if result.Layout.State == layout.StateIterationCapReached.String() {
		printWarning("Iteration cap reached after %d iterations; positions are best-effort", result.Stats.Iterations)
	}

	if download {
		if err := c.writePrettyDocument(opts, base); err != nil {
			return err
		}
	}

	return nil
}

// writePrettyDocument re-serializes the source document with indentation,
// mirroring the viewer's download button.
func (c *CLI) writePrettyDocument(opts pipeline.Options, base string) error {
	v, err := pipeline.LoadDocument(opts)
	if err != nil {
		return fmt.Errorf("reload document: %w", err)
	}
	data, err := jsontree.MarshalIndent(v, "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	path := base + ".pretty.json"
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := out.Write(data); err != nil {
		return err
	}
	printFile(path)
	return nil
}
