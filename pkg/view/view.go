// Package view is the interaction surface over a laid-out graph.
//
// A View holds the currently published (Graph, Positions) pair plus
// ephemeral interaction state: the viewport transform and per-node pins.
// Interactions never touch the underlying JSON document; drag moves and
// pins a node, zoom and pan adjust only the viewport, hover reads node
// detail, and reset clears pins and re-runs the layout engine.
//
// Publish replaces the graph and positions wholesale. The previous pair
// is discarded entirely, so a stale layout can never leak into a newer
// document's view. Events are serialized: concurrent callers are handled
// one at a time in arrival order.
package view

import (
	"context"
	"fmt"
	"sync"

	"github.com/jsonatlas/jsonatlas/pkg/graph"
	"github.com/jsonatlas/jsonatlas/pkg/jsontree"
	"github.com/jsonatlas/jsonatlas/pkg/layout"
)

// Zoom limits for the viewport scale.
const (
	MinScale = 0.1
	MaxScale = 10.0
)

// ErrNodeNotFound is returned by Drag and Hover for unknown node IDs.
var ErrNodeNotFound = fmt.Errorf("node not found")

// Viewport is the screen transform: world coordinates are scaled then
// offset. It never affects stored node positions.
type Viewport struct {
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
}

// Apply maps a world coordinate to screen space.
func (vp Viewport) Apply(x, y float64) (float64, float64) {
	return x*vp.Scale + vp.OffsetX, y*vp.Scale + vp.OffsetY
}

// Detail is the hover payload for one node.
type Detail struct {
	Label   string        `json:"label"`
	Kind    jsontree.Kind `json:"kind"`
	Color   string        `json:"color"`
	Path    string        `json:"path"`
	Preview string        `json:"preview"`

	// Raw is the full untruncated literal for leaves; empty for
	// containers, which report their child count instead.
	Raw      string `json:"raw,omitempty"`
	Children int    `json:"children,omitempty"`
}

// View is the interaction surface over one published graph and layout.
type View struct {
	mu        sync.Mutex
	engine    layout.Engine
	graph     *graph.Graph
	positions layout.Positions
	viewport  Viewport
}

// New creates a View that re-layouts with the given engine on Reset.
func New(engine layout.Engine) *View {
	return &View{
		engine:   engine,
		viewport: Viewport{Scale: 1},
	}
}

// Publish installs a freshly built graph and its positions, replacing
// whatever was shown before. The view takes ownership of both; the
// previous pair is dropped whole. The viewport is kept so the user does
// not lose their place when re-rendering the same region.
func (v *View) Publish(g *graph.Graph, pos layout.Positions) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.graph = g
	v.positions = pos
}

// Graph returns the currently published graph, or nil before the first
// Publish.
func (v *View) Graph() *graph.Graph {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.graph
}

// Positions returns a snapshot of the current node positions.
func (v *View) Positions() layout.Positions {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.positions.Clone()
}

// Viewport returns the current viewport transform.
func (v *View) Viewport() Viewport {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.viewport
}

// Drag moves a node to a new world position and pins it there. Pinned
// nodes are excluded from automatic re-layout until Reset. The graph and
// the underlying document are untouched.
func (v *View) Drag(nodeID string, x, y float64) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.graph == nil || v.graph.NodeByID(nodeID) == nil {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, nodeID)
	}
	v.positions[nodeID] = layout.Position{X: x, Y: y, Pinned: true}
	return nil
}

// Zoom scales the viewport by factor around the given screen point,
// which stays fixed on screen. Node positions are untouched.
func (v *View) Zoom(factor, centerX, centerY float64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	newScale := v.viewport.Scale * factor
	if newScale < MinScale {
		newScale = MinScale
	}
	if newScale > MaxScale {
		newScale = MaxScale
	}
	applied := newScale / v.viewport.Scale
	v.viewport.OffsetX = centerX - (centerX-v.viewport.OffsetX)*applied
	v.viewport.OffsetY = centerY - (centerY-v.viewport.OffsetY)*applied
	v.viewport.Scale = newScale
}

// Pan shifts the viewport by the given screen delta.
func (v *View) Pan(dx, dy float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.viewport.OffsetX += dx
	v.viewport.OffsetY += dy
}

// Hover returns the detail payload for a node. Read-only.
func (v *View) Hover(nodeID string) (Detail, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.graph == nil {
		return Detail{}, fmt.Errorf("%w: %s", ErrNodeNotFound, nodeID)
	}
	n := v.graph.NodeByID(nodeID)
	if n == nil {
		return Detail{}, fmt.Errorf("%w: %s", ErrNodeNotFound, nodeID)
	}
	return Detail{
		Label:    n.Label,
		Kind:     n.Kind,
		Color:    n.Color,
		Path:     n.Path.String(),
		Preview:  n.Label,
		Raw:      n.Raw,
		Children: n.Children,
	}, nil
}

// Reset clears all pins and recomputes the layout from scratch with the
// view's engine. The viewport transform is restored to identity.
func (v *View) Reset(ctx context.Context) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.viewport = Viewport{Scale: 1}
	if v.graph == nil {
		return
	}
	res := v.engine.Layout(ctx, v.graph, nil)
	v.positions = res.Positions
}
