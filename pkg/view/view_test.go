package view

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/jsonatlas/jsonatlas/pkg/graph"
	"github.com/jsonatlas/jsonatlas/pkg/jsontree"
	"github.com/jsonatlas/jsonatlas/pkg/layout"
)

func publishDoc(t *testing.T, doc string) (*View, *graph.Graph) {
	t.Helper()
	v, err := jsontree.Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	g, err := graph.Build(v)
	if err != nil {
		t.Fatal(err)
	}
	engine := layout.NewHierarchical()
	res := engine.Layout(context.Background(), g, nil)

	view := New(engine)
	view.Publish(g, res.Positions)
	return view, g
}

func TestDragPinsNode(t *testing.T) {
	view, g := publishDoc(t, `{"a": 1, "b": 2}`)
	id := g.ChildIDs(g.RootID)[0]

	if err := view.Drag(id, 77, -33); err != nil {
		t.Fatalf("Drag() error = %v", err)
	}

	p := view.Positions()[id]
	if p.X != 77 || p.Y != -33 || !p.Pinned {
		t.Errorf("position after drag = %+v", p)
	}

	if err := view.Drag("no-such-node", 0, 0); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("Drag(ghost) error = %v, want ErrNodeNotFound", err)
	}
}

func TestDragSurvivesRebuild(t *testing.T) {
	doc := `{"a": 1, "b": 2}`
	view, g := publishDoc(t, doc)
	id := g.ChildIDs(g.RootID)[0]

	if err := view.Drag(id, 400, 400); err != nil {
		t.Fatal(err)
	}

	// Rebuild the same document: ids match, pins carry over.
	v, _ := jsontree.Parse([]byte(doc))
	g2, _ := graph.Build(v)
	engine := layout.NewHierarchical()
	res := engine.Layout(context.Background(), g2, view.Positions())
	view.Publish(g2, res.Positions)

	p := view.Positions()[id]
	if p.X != 400 || p.Y != 400 || !p.Pinned {
		t.Errorf("pinned position lost across rebuild: %+v", p)
	}
}

func TestZoomKeepsCenterFixed(t *testing.T) {
	view, _ := publishDoc(t, `{}`)

	// A world point rendered at the zoom center must stay put.
	vp := view.Viewport()
	cx, cy := 100.0, 50.0
	worldX, worldY := (cx-vp.OffsetX)/vp.Scale, (cy-vp.OffsetY)/vp.Scale

	view.Zoom(2, cx, cy)

	sx, sy := view.Viewport().Apply(worldX, worldY)
	if math.Abs(sx-cx) > 1e-9 || math.Abs(sy-cy) > 1e-9 {
		t.Errorf("zoom center drifted: (%v, %v) vs (%v, %v)", sx, sy, cx, cy)
	}
	if view.Viewport().Scale != 2 {
		t.Errorf("scale = %v, want 2", view.Viewport().Scale)
	}
}

func TestZoomClamped(t *testing.T) {
	view, _ := publishDoc(t, `{}`)

	view.Zoom(1000, 0, 0)
	if s := view.Viewport().Scale; s != MaxScale {
		t.Errorf("scale = %v, want clamped to %v", s, MaxScale)
	}

	view.Zoom(1e-6, 0, 0)
	if s := view.Viewport().Scale; s != MinScale {
		t.Errorf("scale = %v, want clamped to %v", s, MinScale)
	}
}

func TestPanMovesOnlyViewport(t *testing.T) {
	view, g := publishDoc(t, `{"a": 1}`)
	before := view.Positions()

	view.Pan(15, -10)

	vp := view.Viewport()
	if vp.OffsetX != 15 || vp.OffsetY != -10 {
		t.Errorf("viewport = %+v", vp)
	}
	after := view.Positions()
	for _, n := range g.Nodes {
		if before[n.ID] != after[n.ID] {
			t.Errorf("pan moved node %s", n.ID)
		}
	}
}

func TestHover(t *testing.T) {
	long := strings.Repeat("z", 200)
	view, g := publishDoc(t, `{"text": "`+long+`", "list": [1, 2]}`)

	leafID := g.ChildIDs(g.RootID)[0]
	d, err := view.Hover(leafID)
	if err != nil {
		t.Fatalf("Hover() error = %v", err)
	}
	if d.Kind != jsontree.KindString {
		t.Errorf("kind = %v, want string", d.Kind)
	}
	if d.Raw != long {
		t.Error("Raw is not the full untruncated string")
	}
	if len([]rune(d.Preview)) >= len(long) {
		t.Error("Preview is not truncated")
	}
	if d.Path != "$.text" {
		t.Errorf("path = %q, want $.text", d.Path)
	}

	containerID := g.ChildIDs(g.RootID)[1]
	d, err = view.Hover(containerID)
	if err != nil {
		t.Fatal(err)
	}
	if d.Children != 2 || d.Raw != "" {
		t.Errorf("container detail = %+v", d)
	}

	if _, err := view.Hover("ghost"); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("Hover(ghost) error = %v, want ErrNodeNotFound", err)
	}
}

func TestResetClearsPinsAndViewport(t *testing.T) {
	view, g := publishDoc(t, `{"a": 1, "b": 2}`)
	id := g.ChildIDs(g.RootID)[0]
	fresh := view.Positions()[id]

	if err := view.Drag(id, 900, 900); err != nil {
		t.Fatal(err)
	}
	view.Zoom(3, 0, 0)
	view.Pan(5, 5)

	view.Reset(context.Background())

	p := view.Positions()[id]
	if p.Pinned {
		t.Error("pin survived Reset")
	}
	if p != fresh {
		t.Errorf("position after reset = %+v, want %+v", p, fresh)
	}
	if vp := view.Viewport(); vp.Scale != 1 || vp.OffsetX != 0 || vp.OffsetY != 0 {
		t.Errorf("viewport after reset = %+v", vp)
	}
}

func TestPublishReplacesWholesale(t *testing.T) {
	view, g1 := publishDoc(t, `{"a": 1}`)
	oldID := g1.ChildIDs(g1.RootID)[0]

	v2, _ := jsontree.Parse([]byte(`{"different": true}`))
	g2, _ := graph.Build(v2)
	engine := layout.NewHierarchical()
	res := engine.Layout(context.Background(), g2, nil)
	view.Publish(g2, res.Positions)

	if view.Graph() != g2 {
		t.Error("Graph() is not the newly published graph")
	}
	if _, ok := view.Positions()[oldID]; ok {
		t.Error("old node positions leaked into the new layout")
	}
}
