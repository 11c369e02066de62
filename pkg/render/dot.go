package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/jsonatlas/jsonatlas/pkg/graph"
	"github.com/jsonatlas/jsonatlas/pkg/layout"
)

// ToDOT converts a graph to Graphviz DOT format. Nodes are filled with
// their kind color, edges carry their member key or index as a label.
//
// When positions are provided, they are pinned via pos attributes and the
// neato engine is selected so the computed layout survives into the image.
// Without positions, Graphviz's dot engine produces its own hierarchy.
func ToDOT(g *graph.Graph, pos layout.Positions, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if len(pos) > 0 {
		buf.WriteString("  layout=neato;\n")
	} else {
		buf.WriteString("  rankdir=TB;\n")
	}
	if opts.Dark {
		fmt.Fprintf(&buf, "  bgcolor=%q;\n", DarkBackground)
		buf.WriteString("  edge [color=\"#718096\", fontcolor=\"#A0AEC0\", fontsize=11];\n")
	} else {
		buf.WriteString("  bgcolor=\"transparent\";\n")
		buf.WriteString("  edge [color=\"#4A5568\", fontcolor=\"#4A5568\", fontsize=11];\n")
	}
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontcolor=white, fontsize=14, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		attrs := fmt.Sprintf("label=%q, fillcolor=%q", n.Label, n.Color)
		if p, ok := pos[n.ID]; ok {
			// Graphviz points grow upward, screen coordinates grow downward.
			attrs += fmt.Sprintf(", pos=\"%.2f,%.2f!\"", p.X, -p.Y)
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, attrs)
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.From, e.To, e.Label)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with
// [ToPDF] or [ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.-]+)\s+([0-9.-]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the opening svg tag so the viewBox starts at
// the origin and the pixel size matches it. Some SVG consumers mishandle
// Graphviz's offset viewBox and pt-based sizing.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
