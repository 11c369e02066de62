package render

import (
	"encoding/json"

	"github.com/jsonatlas/jsonatlas/pkg/graph"
	"github.com/jsonatlas/jsonatlas/pkg/layout"
)

// snapshot bundles a graph with its layout in one artifact.
type snapshot struct {
	Graph  *graph.Graph  `json:"graph"`
	Layout layout.Layout `json:"layout"`
}

// JSON serializes the graph and layout together. This is the artifact
// external tooling consumes; the graph and layout files written by their
// own packages stay separate.
func JSON(g *graph.Graph, l layout.Layout) ([]byte, error) {
	return json.MarshalIndent(snapshot{Graph: g, Layout: l}, "", "  ")
}
