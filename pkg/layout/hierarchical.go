package layout

import (
	"context"

	"github.com/jsonatlas/jsonatlas/pkg/graph"
)

// Geometry of the hierarchical grid.
const (
	hierarchicalGapX = 140.0 // horizontal slot width per leaf
	hierarchicalGapY = 110.0 // vertical distance between depth bands
)

// Hierarchical places the root at the origin and each depth level on its
// own horizontal band. Leaves claim consecutive horizontal slots in
// document order; containers center over their children. The result is a
// pure function of the graph, so the same document always renders the
// same picture.
type Hierarchical struct{}

// NewHierarchical creates a hierarchical engine.
func NewHierarchical() *Hierarchical { return &Hierarchical{} }

// Name returns "hierarchical".
func (h *Hierarchical) Name() string { return EngineHierarchical }

// Layout computes tidy-tree positions. The run is single-pass and fast,
// so cancellation is only honored between graphs, not mid-computation;
// the returned state is always Converged.
func (h *Hierarchical) Layout(_ context.Context, g *graph.Graph, previous Positions) Result {
	pos := make(Positions, g.NodeCount())
	if g.NodeCount() == 0 {
		return Result{Positions: pos, State: StateConverged}
	}

	// Post-order walk with an explicit stack: children must be placed
	// before their parent can center over them.
	type item struct {
		id       string
		expanded bool
	}
	nextSlot := 0.0
	stack := []item{{id: g.RootID}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		if !it.expanded {
			stack[len(stack)-1].expanded = true
			kids := g.ChildIDs(it.id)
			for i := len(kids) - 1; i >= 0; i-- {
				stack = append(stack, item{id: kids[i]})
			}
			continue
		}
		stack = stack[:len(stack)-1]

		node := g.NodeByID(it.id)
		y := float64(node.Depth) * hierarchicalGapY
		kids := g.ChildIDs(it.id)
		if len(kids) == 0 {
			pos[it.id] = Position{X: nextSlot * hierarchicalGapX, Y: y}
			nextSlot++
			continue
		}
		first := pos[kids[0]]
		last := pos[kids[len(kids)-1]]
		pos[it.id] = Position{X: (first.X + last.X) / 2, Y: y}
	}

	// Shift so the root sits exactly at the anchor.
	root := pos[g.RootID]
	if root.X != 0 {
		for id, p := range pos {
			p.X -= root.X
			pos[id] = p
		}
	}

	carryPinned(pos, previous)
	return Result{Positions: pos, State: StateConverged, Iterations: 1}
}
