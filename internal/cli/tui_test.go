package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jsonatlas/jsonatlas/pkg/graph"
	"github.com/jsonatlas/jsonatlas/pkg/jsontree"
	"github.com/jsonatlas/jsonatlas/pkg/layout"
	"github.com/jsonatlas/jsonatlas/pkg/view"
)

func newTestSurface(t *testing.T) (*view.View, *graph.Graph) {
	t.Helper()
	v, err := jsontree.ParseString(`{"name": "ada", "tags": [1, 2]}`)
	if err != nil {
		t.Fatal(err)
	}
	g, err := graph.Build(v)
	if err != nil {
		t.Fatal(err)
	}
	engine, err := layout.New(layout.EngineHierarchical)
	if err != nil {
		t.Fatal(err)
	}
	res := engine.Layout(t.Context(), g, nil)
	surface := view.New(engine)
	surface.Publish(g, res.Positions)
	return surface, g
}

func keyMsg(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{}
}

func TestTreeModelInitialState(t *testing.T) {
	surface, g := newTestSurface(t)
	m := NewTreeModel(surface, "test")

	// Root expanded: root plus its two children are visible
	if len(m.visible) != 3 {
		t.Fatalf("visible = %d, want 3", len(m.visible))
	}
	if m.visible[0] != g.RootID {
		t.Errorf("first visible node should be the root")
	}
	if m.Cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.Cursor)
	}
}

func TestTreeModelNavigation(t *testing.T) {
	surface, _ := newTestSurface(t)
	m := NewTreeModel(surface, "test")

	next, _ := m.Update(keyMsg("down"))
	m = next.(TreeModel)
	if m.Cursor != 1 {
		t.Errorf("cursor after down = %d, want 1", m.Cursor)
	}

	next, _ = m.Update(keyMsg("up"))
	m = next.(TreeModel)
	if m.Cursor != 0 {
		t.Errorf("cursor after up = %d, want 0", m.Cursor)
	}

	// Up at the top stays put
	next, _ = m.Update(keyMsg("up"))
	m = next.(TreeModel)
	if m.Cursor != 0 {
		t.Errorf("cursor should not go negative, got %d", m.Cursor)
	}
}

func TestTreeModelExpandCollapse(t *testing.T) {
	surface, g := newTestSurface(t)
	m := NewTreeModel(surface, "test")

	// Move to the tags array (second child of the root, visible index 2)
	next, _ := m.Update(keyMsg("down"))
	m = next.(TreeModel)
	next, _ = m.Update(keyMsg("down"))
	m = next.(TreeModel)

	id, ok := m.current()
	if !ok {
		t.Fatal("no current node")
	}
	n := g.NodeByID(id)
	if n == nil || !n.IsContainer() {
		t.Fatalf("expected a container under cursor, got %+v", n)
	}

	before := len(m.visible)
	next, _ = m.Update(keyMsg("enter"))
	m = next.(TreeModel)
	if len(m.visible) != before+2 {
		t.Errorf("expanding array should reveal 2 elements: %d -> %d", before, len(m.visible))
	}

	next, _ = m.Update(keyMsg("enter"))
	m = next.(TreeModel)
	if len(m.visible) != before {
		t.Errorf("collapsing should restore %d visible, got %d", before, len(m.visible))
	}
}

func TestTreeModelCollapseRoot(t *testing.T) {
	surface, _ := newTestSurface(t)
	m := NewTreeModel(surface, "test")

	next, _ := m.Update(keyMsg("enter"))
	m = next.(TreeModel)
	if len(m.visible) != 1 {
		t.Errorf("collapsed root should leave 1 visible node, got %d", len(m.visible))
	}
}

func TestTreeModelQuit(t *testing.T) {
	surface, _ := newTestSurface(t)
	m := NewTreeModel(surface, "test")

	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
}

func TestTreeModelViewRenders(t *testing.T) {
	surface, _ := newTestSurface(t)
	m := NewTreeModel(surface, "people")

	out := m.View()
	if out == "" {
		t.Fatal("View() should render")
	}
	for _, want := range []string{"people", "{}", "[]"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() should contain %q", want)
		}
	}
}
