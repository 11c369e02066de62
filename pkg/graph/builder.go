package graph

import (
	"fmt"

	"github.com/jsonatlas/jsonatlas/pkg/jsontree"
)

// DefaultLabelLength is the display length leaf string previews are
// truncated to. Hover details always expose the full string.
const DefaultLabelLength = 50

// Builder converts JSON values into graphs. The zero value is not usable;
// use NewBuilder.
type Builder struct {
	labelLength int
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLabelLength overrides the leaf preview truncation length.
// Values <= 0 disable truncation.
func WithLabelLength(n int) BuilderOption {
	return func(b *Builder) { b.labelLength = n }
}

// NewBuilder creates a Builder with default options.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{labelLength: DefaultLabelLength}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build is a convenience wrapper around NewBuilder().Build for callers
// that need no configuration.
func Build(root jsontree.Value) (*Graph, error) {
	return NewBuilder().Build(root)
}

// frame is one pending unit of traversal work.
type frame struct {
	value  jsontree.Value
	path   Path
	parent string // parent node ID, "" for the root
	label  string // edge label from the parent
}

// Build walks the document depth-first and emits one node per JSON value
// plus one labeled edge per parent/child relation.
//
// The walk uses an explicit work stack rather than recursion, so nesting
// depth is bounded only by memory. Object keys are visited in insertion
// order and array elements in index order, making the output (IDs,
// labels, node and edge order) fully deterministic for a given document.
//
// Build fails only when root is nil (ErrNilDocument) or contains a value
// type outside the JSON grammar (ErrUnsupportedValue); both indicate an
// upstream ingestion failure, not bad user input.
func (b *Builder) Build(root jsontree.Value) (*Graph, error) {
	if root == nil {
		return nil, ErrNilDocument
	}

	g := &Graph{}
	stack := []frame{{value: root, path: Path{}}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node, err := b.makeNode(f)
		if err != nil {
			return nil, err
		}
		g.Nodes = append(g.Nodes, node)

		if f.parent == "" {
			g.RootID = node.ID
		} else {
			g.Edges = append(g.Edges, Edge{From: f.parent, To: node.ID, Label: f.label})
		}

		// Children are pushed in reverse so the stack pops them in
		// document order.
		switch v := f.value.(type) {
		case jsontree.Object:
			ordinals := keyOrdinals(v)
			for i := len(v) - 1; i >= 0; i-- {
				child := Path(f.path).Key(v[i].Key, ordinals[i])
				stack = append(stack, frame{
					value:  v[i].Value,
					path:   child,
					parent: node.ID,
					label:  v[i].Key,
				})
			}
		case jsontree.Array:
			for i := len(v) - 1; i >= 0; i-- {
				child := Path(f.path).Index(i)
				stack = append(stack, frame{
					value:  v[i],
					path:   child,
					parent: node.ID,
					label:  child[len(child)-1].Label(),
				})
			}
		}
	}

	g.reindex()
	return g, nil
}

// makeNode creates the node for one traversal frame.
func (b *Builder) makeNode(f frame) (Node, error) {
	switch v := f.value.(type) {
	case jsontree.Object, jsontree.Array, jsontree.String, jsontree.Number, jsontree.Bool, jsontree.Null:
		kind, color := jsontree.Classify(v)
		node := Node{
			ID:    f.path.Hash(),
			Kind:  kind,
			Color: color,
			Path:  f.path,
			Depth: len(f.path),
		}
		if node.IsContainer() {
			node.Label = b.containerLabel(f)
			node.Children = childCount(v)
		} else {
			raw := jsontree.Literal(v)
			node.Raw = raw
			node.Label = jsontree.Truncate(raw, b.labelLength)
		}
		return node, nil
	case nil:
		return Node{}, fmt.Errorf("%w at %s", ErrNilDocument, f.path)
	default:
		return Node{}, fmt.Errorf("%w: %T at %s", ErrUnsupportedValue, f.value, f.path)
	}
}

// containerLabel names a container by the key or index that leads to it;
// the root container falls back to its bracket form.
func (b *Builder) containerLabel(f frame) string {
	if f.parent == "" {
		return jsontree.Literal(f.value) // "{}" or "[]"
	}
	return f.label
}

func childCount(v jsontree.Value) int {
	switch c := v.(type) {
	case jsontree.Object:
		return len(c)
	case jsontree.Array:
		return len(c)
	}
	return 0
}

// keyOrdinals assigns each member its occurrence count among earlier
// members with the same key. All zeros unless the object carries
// duplicate keys.
func keyOrdinals(obj jsontree.Object) []int {
	ordinals := make([]int, len(obj))
	seen := make(map[string]int, len(obj))
	for i, m := range obj {
		ordinals[i] = seen[m.Key]
		seen[m.Key]++
	}
	return ordinals
}
