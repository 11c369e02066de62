package pipeline

import (
	"fmt"

	"github.com/jsonatlas/jsonatlas/pkg/cache"
	"github.com/jsonatlas/jsonatlas/pkg/graph"
	"github.com/jsonatlas/jsonatlas/pkg/ingest"
	"github.com/jsonatlas/jsonatlas/pkg/jsontree"
)

// =============================================================================
// Graph Building
// =============================================================================

// LoadDocument parses the document from opts, either inline text or a file.
// Tabular files (CSV, XLSX) are converted to an array of objects.
func LoadDocument(opts Options) (jsontree.Value, error) {
	if opts.File != "" {
		return ingest.File(opts.File)
	}
	return jsontree.ParseString(opts.Document)
}

// BuildGraph derives the graph from a parsed document.
func BuildGraph(v jsontree.Value, opts Options) (*graph.Graph, error) {
	b := graph.NewBuilder(graph.WithLabelLength(opts.LabelLength))
	g, err := b.Build(v)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}
	return g, nil
}

// DocumentHash returns the canonical content hash of a parsed document.
// Hashing the serialized value model, not the raw bytes, makes the hash
// insensitive to whitespace and identical across input formats.
func DocumentHash(v jsontree.Value) (string, error) {
	data, err := jsontree.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("serialize document for hash: %w", err)
	}
	return cache.Hash(data), nil
}
