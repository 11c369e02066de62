// Package layout assigns 2D positions to graph nodes.
//
// Two engines are provided behind the Engine interface:
//
//   - Hierarchical: deterministic tidy-tree placement, root anchored at
//     the origin, one horizontal band per depth level.
//   - Force: spring/repulsion relaxation seeded for reproducibility,
//     iterating until displacement falls below a threshold or the
//     iteration cap is reached.
//
// Layout never fails: degenerate graphs (zero or one node) yield trivial
// layouts, and a simulation that does not converge is accepted as best
// effort. Cancellation via context supersedes an in-flight simulation and
// returns the best positions so far.
//
// Positions survive rebuilds selectively: a node the user has pinned (by
// dragging it) keeps its previous position verbatim; unpinned nodes are
// free to move; nodes new to the graph are seeded near their parent so
// the picture does not jump.
package layout

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jsonatlas/jsonatlas/pkg/graph"
)

// Engine names accepted by New.
const (
	EngineHierarchical = "hierarchical"
	EngineForce        = "force"
)

// DefaultEngine is used when no engine is requested.
const DefaultEngine = EngineHierarchical

// ValidEngines is the set of supported engine names.
var ValidEngines = map[string]bool{
	EngineHierarchical: true,
	EngineForce:        true,
}

// ValidateEngine checks that an engine name is valid.
func ValidateEngine(name string) error {
	if !ValidEngines[name] {
		return fmt.Errorf("invalid engine: %q (must be one of: hierarchical, force)", name)
	}
	return nil
}

// Position is one node's coordinate plus its pin state. Pinned positions
// are user-fixed and exempt from automatic re-layout.
type Position struct {
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Pinned bool    `json:"pinned,omitempty" bson:"pinned,omitempty"`
}

// Positions maps node IDs to their positions.
type Positions map[string]Position

// Clone returns a copy of the position map.
func (p Positions) Clone() Positions {
	out := make(Positions, len(p))
	for id, pos := range p {
		out[id] = pos
	}
	return out
}

// State describes how a layout run ended. Running is the only
// non-terminal state; every run finishes in exactly one of the other
// three.
type State int

const (
	StateRunning State = iota
	StateConverged
	StateSuperseded
	StateIterationCapReached
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateConverged:
		return "converged"
	case StateSuperseded:
		return "superseded"
	case StateIterationCapReached:
		return "iteration-cap"
	}
	return "unknown"
}

// Result is the outcome of one layout run.
type Result struct {
	Positions  Positions
	State      State
	Iterations int
}

// Engine computes node positions for a graph.
type Engine interface {
	// Name returns the engine's registered name.
	Name() string

	// Layout computes positions for every node in g. Positions in
	// previous that are flagged pinned carry over unchanged; previous
	// may be nil for a fresh layout. Cancelling ctx supersedes the run.
	Layout(ctx context.Context, g *graph.Graph, previous Positions) Result
}

// New returns the engine registered under name.
func New(name string) (Engine, error) {
	switch name {
	case EngineHierarchical, "":
		return NewHierarchical(), nil
	case EngineForce:
		return NewForce(ForceOptions{}), nil
	}
	return nil, fmt.Errorf("invalid engine: %q", name)
}

// carryPinned overwrites computed positions with pinned previous ones.
func carryPinned(computed, previous Positions) {
	for id, prev := range previous {
		if prev.Pinned {
			if _, ok := computed[id]; ok {
				computed[id] = prev
			}
		}
	}
}

// =============================================================================
// Layout Serialization
// =============================================================================

// Layout is the serialization format for a computed layout.
type Layout struct {
	Engine    string    `json:"engine" bson:"engine"`
	State     string    `json:"state,omitempty" bson:"state,omitempty"`
	Positions Positions `json:"positions" bson:"positions"`
}

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if l.Engine == "" {
		l.Engine = DefaultEngine
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
