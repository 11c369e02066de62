package graph

import (
	"errors"
	"strings"
	"testing"

	"github.com/jsonatlas/jsonatlas/pkg/jsontree"
)

func mustParse(t *testing.T, doc string) jsontree.Value {
	t.Helper()
	v, err := jsontree.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse %s: %v", doc, err)
	}
	return v
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantNodes int
		wantEdges int
		check     func(t *testing.T, g *Graph)
	}{
		{
			name:      "EmptyObject",
			doc:       `{}`,
			wantNodes: 1,
			wantEdges: 0,
			check: func(t *testing.T, g *Graph) {
				root := g.Root()
				if root.Kind != jsontree.KindObject {
					t.Errorf("root kind = %v, want object", root.Kind)
				}
				if root.Label != "{}" {
					t.Errorf("root label = %q, want {}", root.Label)
				}
			},
		},
		{
			name:      "EmptyArray",
			doc:       `[]`,
			wantNodes: 1,
			wantEdges: 0,
		},
		{
			name:      "ScalarRoot",
			doc:       `"hello"`,
			wantNodes: 1,
			wantEdges: 0,
			check: func(t *testing.T, g *Graph) {
				if g.Root().Label != "hello" {
					t.Errorf("label = %q", g.Root().Label)
				}
			},
		},
		{
			name:      "MixedNesting",
			doc:       `{"a": 1, "b": [true, null]}`,
			wantNodes: 5,
			wantEdges: 4,
			check: func(t *testing.T, g *Graph) {
				root := g.Root()
				if root.Kind != jsontree.KindObject {
					t.Fatalf("root kind = %v", root.Kind)
				}

				kids := g.ChildIDs(root.ID)
				if len(kids) != 2 {
					t.Fatalf("root children = %d, want 2", len(kids))
				}

				a := g.NodeByID(kids[0])
				if a.Kind != jsontree.KindNumber || a.Label != "1" {
					t.Errorf("a = kind %v label %q, want number 1", a.Kind, a.Label)
				}

				b := g.NodeByID(kids[1])
				if b.Kind != jsontree.KindArray || b.Label != "b" {
					t.Errorf("b = kind %v label %q, want array b", b.Kind, b.Label)
				}

				grandkids := g.ChildIDs(b.ID)
				if len(grandkids) != 2 {
					t.Fatalf("b children = %d, want 2", len(grandkids))
				}
				if n := g.NodeByID(grandkids[0]); n.Kind != jsontree.KindBool || n.Label != "true" {
					t.Errorf("b[0] = kind %v label %q", n.Kind, n.Label)
				}
				if n := g.NodeByID(grandkids[1]); n.Kind != jsontree.KindNull || n.Label != "null" {
					t.Errorf("b[1] = kind %v label %q", n.Kind, n.Label)
				}

				// Edge labels in document order.
				labels := make([]string, len(g.Edges))
				for i, e := range g.Edges {
					labels[i] = e.Label
				}
				want := []string{"a", "b", "0", "1"}
				for i := range want {
					if labels[i] != want[i] {
						t.Errorf("edge labels = %v, want %v", labels, want)
						break
					}
				}
			},
		},
		{
			name:      "NodeCountEqualsValues",
			doc:       `{"a": {"b": [1, 2]}, "c": null, "d": {}}`,
			wantNodes: 7, // root + a + b + 1 + 2 + c + d
			wantEdges: 6,
		},
		{
			name:      "DuplicateKeysGetDistinctIDs",
			doc:       `{"x": 1, "x": 2}`,
			wantNodes: 3,
			wantEdges: 2,
			check: func(t *testing.T, g *Graph) {
				kids := g.ChildIDs(g.RootID)
				if kids[0] == kids[1] {
					t.Error("duplicate-key siblings share an ID")
				}
			},
		},
		{
			name:      "IdenticalSiblingValues",
			doc:       `{"a": null, "b": null}`,
			wantNodes: 3,
			wantEdges: 2,
			check: func(t *testing.T, g *Graph) {
				kids := g.ChildIDs(g.RootID)
				if kids[0] == kids[1] {
					t.Error("structurally identical siblings share an ID")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Build(mustParse(t, tt.doc))
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if g.NodeCount() != tt.wantNodes {
				t.Errorf("nodes = %d, want %d", g.NodeCount(), tt.wantNodes)
			}
			if g.EdgeCount() != tt.wantEdges {
				t.Errorf("edges = %d, want %d", g.EdgeCount(), tt.wantEdges)
			}
			if err := g.Validate(); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
			if tt.check != nil {
				tt.check(t, g)
			}
		})
	}
}

func TestBuildErrors(t *testing.T) {
	if _, err := Build(nil); !errors.Is(err, ErrNilDocument) {
		t.Errorf("Build(nil) error = %v, want ErrNilDocument", err)
	}

	// A Value implementation from outside the jsontree package must be
	// rejected as an ingestion bug.
	if _, err := Build(foreignValue{}); !errors.Is(err, ErrUnsupportedValue) {
		t.Errorf("Build(foreign) error = %v, want ErrUnsupportedValue", err)
	}
}

type foreignValue struct{}

func (foreignValue) Kind() jsontree.Kind { return jsontree.KindString }

func TestBuildDeterminism(t *testing.T) {
	doc := `{"users": [{"name": "ada", "tags": ["x", "y"]}, {"name": "bob"}], "count": 2}`
	v := mustParse(t, doc)

	g1, err := Build(v)
	if err != nil {
		t.Fatal(err)
	}
	g2, err := Build(mustParse(t, doc))
	if err != nil {
		t.Fatal(err)
	}

	if g1.NodeCount() != g2.NodeCount() {
		t.Fatalf("node counts differ: %d vs %d", g1.NodeCount(), g2.NodeCount())
	}
	for i := range g1.Nodes {
		if g1.Nodes[i].ID != g2.Nodes[i].ID {
			t.Errorf("node %d ID differs: %s vs %s", i, g1.Nodes[i].ID, g2.Nodes[i].ID)
		}
		if g1.Nodes[i].Label != g2.Nodes[i].Label {
			t.Errorf("node %d label differs", i)
		}
	}
	for i := range g1.Edges {
		if g1.Edges[i] != g2.Edges[i] {
			t.Errorf("edge %d differs: %+v vs %+v", i, g1.Edges[i], g2.Edges[i])
		}
	}
}

func TestBuildTreeInvariant(t *testing.T) {
	g, err := Build(mustParse(t, `{"a": {"b": [1, {"c": true}]}, "d": [[], {}]}`))
	if err != nil {
		t.Fatal(err)
	}

	incoming := make(map[string]int)
	for _, e := range g.Edges {
		incoming[e.To]++
	}
	roots := 0
	for _, n := range g.Nodes {
		switch incoming[n.ID] {
		case 0:
			roots++
		case 1:
			// expected for non-roots
		default:
			t.Errorf("node %s has %d incoming edges", n.ID, incoming[n.ID])
		}
	}
	if roots != 1 {
		t.Errorf("roots = %d, want exactly 1", roots)
	}
}

func TestBuildLongStringTruncation(t *testing.T) {
	long := strings.Repeat("x", 200)
	g, err := Build(mustParse(t, `{"s": "`+long+`"}`))
	if err != nil {
		t.Fatal(err)
	}

	leaf := g.NodeByID(g.ChildIDs(g.RootID)[0])
	if got := len([]rune(leaf.Label)); got != DefaultLabelLength+1 { // 50 + ellipsis
		t.Errorf("label length = %d, want %d", got, DefaultLabelLength+1)
	}
	if !strings.HasSuffix(leaf.Label, "…") {
		t.Errorf("label %q missing truncation marker", leaf.Label)
	}
	if leaf.Raw != long {
		t.Error("Raw does not carry the full string")
	}
}

func TestBuildDeepNesting(t *testing.T) {
	const depth = 500
	doc := strings.Repeat(`{"k":`, depth) + "null" + strings.Repeat("}", depth)

	g, err := Build(mustParse(t, doc))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if g.NodeCount() != depth+1 {
		t.Errorf("nodes = %d, want %d", g.NodeCount(), depth+1)
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	deepest := g.Nodes[len(g.Nodes)-1]
	if deepest.Depth != depth {
		t.Errorf("deepest depth = %d, want %d", deepest.Depth, depth)
	}
}

func TestBuildCustomLabelLength(t *testing.T) {
	b := NewBuilder(WithLabelLength(5))
	g, err := b.Build(mustParse(t, `"abcdefgh"`))
	if err != nil {
		t.Fatal(err)
	}
	if g.Root().Label != "abcde…" {
		t.Errorf("label = %q, want abcde…", g.Root().Label)
	}
}
