package pipeline

import (
	"context"
	"fmt"

	"github.com/jsonatlas/jsonatlas/pkg/graph"
	"github.com/jsonatlas/jsonatlas/pkg/layout"
	"github.com/jsonatlas/jsonatlas/pkg/render"
)

// =============================================================================
// Artifact Rendering
// =============================================================================

// RenderFromLayout generates output artifacts in the requested formats.
// SVG is rendered once and reused for the PNG and PDF conversions.
func RenderFromLayout(ctx context.Context, l layout.Layout, g *graph.Graph, opts Options) (map[string][]byte, error) {
	ropts := opts.RenderOptions()
	artifacts := make(map[string][]byte)

	dot := ""
	needsDOT := false
	var svg []byte
	for _, format := range opts.Formats {
		switch format {
		case render.FormatDOT, render.FormatSVG, render.FormatPNG, render.FormatPDF:
			needsDOT = true
		}
	}
	if needsDOT {
		dot = render.ToDOT(g, l.Positions, ropts)
	}

	// renderedSVG renders the SVG once and memoizes it.
	renderedSVG := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		data, err := render.RenderSVG(ctx, dot)
		if err != nil {
			return nil, err
		}
		svg = data
		return svg, nil
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case render.FormatDOT:
			data = []byte(dot)
		case render.FormatSVG:
			data, err = renderedSVG()
		case render.FormatPNG:
			if data, err = renderedSVG(); err == nil {
				data, err = render.ToPNG(data, opts.Scale)
			}
		case render.FormatPDF:
			if data, err = renderedSVG(); err == nil {
				data, err = render.ToPDF(data)
			}
		case render.FormatHTML:
			data, err = render.HTML(g, l.Positions, opts.Name)
		case render.FormatJSON:
			data, err = render.JSON(g, l)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
