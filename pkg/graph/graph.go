// Package graph models a JSON document as a tree of typed nodes and
// labeled edges, and builds that tree deterministically from a
// jsontree.Value.
//
// Every JSON value (container or leaf) becomes one Node; every
// parent/child relation becomes one Edge labeled with the object key or
// array index. Node identity is derived from the structural path from the
// document root, so rebuilding the same document yields the same IDs.
//
// The resulting Graph is always a tree: JSON has no back-references, so
// each node except the root has exactly one incoming edge and cycles are
// impossible by construction.
package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jsonatlas/jsonatlas/pkg/jsontree"
)

var (
	// ErrNilDocument is returned by Build when the document is nil,
	// meaning the upstream parser failed and handed us nothing.
	ErrNilDocument = errors.New("nil document")

	// ErrUnsupportedValue is returned by Build when a value outside the
	// six JSON kinds reaches the builder. This indicates an ingestion
	// bug, never well-formed input.
	ErrUnsupportedValue = errors.New("unsupported value type")

	// ErrNoRoot is returned by Validate when the graph has no root node.
	ErrNoRoot = errors.New("graph has no root")

	// ErrMultipleParents is returned by Validate when a node has more
	// than one incoming edge, which violates the tree invariant.
	ErrMultipleParents = errors.New("node has multiple parents")

	// ErrInvalidEdgeEndpoint is returned by Validate when an edge
	// references a node that doesn't exist.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrUnreachableNode is returned by Validate when a node cannot be
	// reached from the root.
	ErrUnreachableNode = errors.New("node unreachable from root")
)

// Node represents one JSON value in the graph.
type Node struct {
	ID    string        `json:"id" bson:"id"`
	Label string        `json:"label" bson:"label"`
	Kind  jsontree.Kind `json:"kind" bson:"kind"`
	Color string        `json:"color" bson:"color"`
	Path  Path          `json:"path,omitempty" bson:"path,omitempty"`
	Depth int           `json:"depth,omitempty" bson:"depth,omitempty"`

	// Raw holds the full untruncated literal for leaf nodes. Container
	// nodes leave it empty; their content is their children.
	Raw string `json:"raw,omitempty" bson:"raw,omitempty"`

	// Children is the number of immediate children (containers only).
	Children int `json:"children,omitempty" bson:"children,omitempty"`
}

// IsContainer reports whether the node is an object or array.
func (n *Node) IsContainer() bool {
	return n.Kind == jsontree.KindObject || n.Kind == jsontree.KindArray
}

// Edge is a directed parent→child connection labeled with the object key
// or array index that leads to the child.
type Edge struct {
	From  string `json:"from" bson:"from"`
	To    string `json:"to" bson:"to"`
	Label string `json:"label" bson:"label"`
}

// Graph is the set of nodes and edges derived from one JSON document.
// Nodes and Edges are in depth-first traversal order, which is
// deterministic for a given document.
//
// A Graph is immutable after construction; rebuilds replace it whole.
type Graph struct {
	RootID string `json:"root" bson:"root"`
	Nodes  []Node `json:"nodes" bson:"nodes"`
	Edges  []Edge `json:"edges" bson:"edges"`

	byID     map[string]*Node
	children map[string][]string
	parent   map[string]string
}

// NodeByID returns the node with the given ID, or nil if absent.
func (g *Graph) NodeByID(id string) *Node {
	return g.byID[id]
}

// Root returns the root node, or nil for an empty graph.
func (g *Graph) Root() *Node {
	return g.byID[g.RootID]
}

// ChildIDs returns the IDs of a node's immediate children in edge order.
func (g *Graph) ChildIDs(id string) []string {
	return g.children[id]
}

// ParentID returns the ID of a node's parent and whether it has one.
// The root has none.
func (g *Graph) ParentID(id string) (string, bool) {
	p, ok := g.parent[id]
	return p, ok
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.Edges) }

// reindex rebuilds the lookup maps from the Nodes and Edges slices.
// Called after construction and after deserialization.
func (g *Graph) reindex() {
	g.byID = make(map[string]*Node, len(g.Nodes))
	g.children = make(map[string][]string)
	g.parent = make(map[string]string, len(g.Edges))
	for i := range g.Nodes {
		g.byID[g.Nodes[i].ID] = &g.Nodes[i]
	}
	for _, e := range g.Edges {
		g.children[e.From] = append(g.children[e.From], e.To)
		g.parent[e.To] = e.From
	}
}

// Validate checks the tree invariants: all edge endpoints exist, no node
// has more than one parent, the root has none, and every node is
// reachable from the root. A freshly built graph always passes; Validate
// exists to guard graphs read back from files or stores.
func (g *Graph) Validate() error {
	if len(g.Nodes) == 0 {
		if g.RootID != "" {
			return ErrNoRoot
		}
		return nil
	}
	if g.byID == nil {
		g.reindex()
	}
	if g.Root() == nil {
		return ErrNoRoot
	}

	incoming := make(map[string]int, len(g.Nodes))
	for _, e := range g.Edges {
		if g.byID[e.From] == nil || g.byID[e.To] == nil {
			return fmt.Errorf("%w: %s→%s", ErrInvalidEdgeEndpoint, e.From, e.To)
		}
		incoming[e.To]++
	}
	for _, n := range g.Nodes {
		switch {
		case n.ID == g.RootID && incoming[n.ID] != 0:
			return fmt.Errorf("%w: root %s", ErrMultipleParents, n.ID)
		case n.ID != g.RootID && incoming[n.ID] != 1:
			return fmt.Errorf("%w: %s has %d", ErrMultipleParents, n.ID, incoming[n.ID])
		}
	}

	// Reachability sweep from the root. Since every non-root node has
	// exactly one parent, full coverage also rules out cycles.
	seen := make(map[string]bool, len(g.Nodes))
	stack := []string{g.RootID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[id] {
			continue
		}
		seen[id] = true
		stack = append(stack, g.children[id]...)
	}
	if len(seen) != len(g.Nodes) {
		for _, n := range g.Nodes {
			if !seen[n.ID] {
				return fmt.Errorf("%w: %s", ErrUnreachableNode, n.ID)
			}
		}
	}
	return nil
}

// =============================================================================
// Serialization
// =============================================================================

// MarshalGraph serializes a Graph to pretty-printed JSON bytes.
func MarshalGraph(g *Graph) ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}

// UnmarshalGraph deserializes JSON bytes into a Graph and validates the
// tree invariants.
func UnmarshalGraph(data []byte) (*Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("decode graph: %w", err)
	}
	g.reindex()
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &g, nil
}

// WriteGraph writes a Graph as JSON to w.
func WriteGraph(g *Graph, w io.Writer) error {
	data, err := MarshalGraph(g)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// WriteGraphFile writes a Graph to a JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGraph(g, f)
}

// ReadGraphFile reads a JSON file and returns the decoded Graph.
func ReadGraphFile(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalGraph(data)
}
