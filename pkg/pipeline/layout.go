package pipeline

import (
	"context"
	"fmt"

	"github.com/jsonatlas/jsonatlas/pkg/graph"
	"github.com/jsonatlas/jsonatlas/pkg/layout"
)

// =============================================================================
// Layout Generation
// =============================================================================

// NewEngine constructs the layout engine selected by opts, with the
// force parameters applied when the force engine is chosen.
func NewEngine(opts Options) (layout.Engine, error) {
	switch opts.Engine {
	case layout.EngineForce:
		return layout.NewForce(layout.ForceOptions{
			IterationCap: opts.IterationCap,
			Threshold:    opts.Threshold,
			Seed:         opts.Seed,
		}), nil
	default:
		return layout.New(opts.Engine)
	}
}

// GenerateLayout computes positions for the graph with the selected engine.
// Positions from opts.Previous flagged as pinned carry over unchanged.
func GenerateLayout(ctx context.Context, g *graph.Graph, opts Options) (layout.Layout, layout.Result, error) {
	engine, err := NewEngine(opts)
	if err != nil {
		return layout.Layout{}, layout.Result{}, err
	}

	result := engine.Layout(ctx, g, opts.Previous)
	if result.State == layout.StateSuperseded {
		return layout.Layout{}, result, fmt.Errorf("layout superseded: %w", ctx.Err())
	}

	return layout.Layout{
		Engine:    engine.Name(),
		State:     result.State.String(),
		Positions: result.Positions,
	}, result, nil
}
