package tree

import (
	"strconv"
	"unicode/utf8"

	"github.com/matzehuels/jsontree/pkg/jsonvalue"
)

// visit is one value on the traversal stack.
type visit struct {
	value     jsonvalue.Value
	path      string
	parent    string
	hasParent bool
	depth     int

	id      string
	entered bool
	next    int // index of the next child to push
}

// builder holds the per-call traversal state. A fresh builder per Build call
// means the id counter and layout counters start at zero every time.
type builder struct {
	counter int
	levels  []int // nodes placed so far at each depth
	nodes   []Node
	edges   []Edge
}

// Build converts a parsed JSON value into its node/edge tree.
//
// Nodes are emitted in pre-order: a container before its children, siblings
// in source order. An edge is emitted when its child's subtree is complete,
// so the edge list is in post-order of targets. The traversal uses an
// explicit stack; arbitrarily deep documents do not grow the goroutine stack.
func Build(v jsonvalue.Value) *Tree {
	b := &builder{}
	stack := []*visit{{value: v, path: RootPath}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if !top.entered {
			top.id = b.enter(top)
			top.entered = true
		}

		if child, ok := top.nextChild(); ok {
			stack = append(stack, child)
			continue
		}

		stack = stack[:len(stack)-1]
		if top.hasParent {
			b.edges = append(b.edges, Edge{
				ID:     EdgeID(top.parent, top.id),
				Source: top.parent,
				Target: top.id,
			})
		}
	}

	return &Tree{Nodes: b.nodes, Edges: b.edges}
}

// enter assigns the next id and layout slot to vis and records its node.
func (b *builder) enter(vis *visit) string {
	id := NodeID(b.counter)
	b.counter++

	for len(b.levels) <= vis.depth {
		b.levels = append(b.levels, 0)
	}
	pos := Position{
		X: float64(b.levels[vis.depth]) * ColumnWidth,
		Y: float64(vis.depth) * RowHeight,
	}
	b.levels[vis.depth]++

	typ, label, value := classify(vis.value)
	b.nodes = append(b.nodes, Node{
		ID:       id,
		Type:     typ,
		Label:    label,
		Value:    value,
		Path:     vis.path,
		Position: pos,
	})
	return id
}

// nextChild returns the next unvisited child of a container.
func (vis *visit) nextChild() (*visit, bool) {
	if vis.next >= vis.value.Len() {
		return nil, false
	}
	i := vis.next
	vis.next++

	child := &visit{
		parent:    vis.id,
		hasParent: true,
		depth:     vis.depth + 1,
	}
	switch vis.value.Kind() {
	case jsonvalue.KindArray:
		child.value = vis.value.Items()[i]
		child.path = vis.path + "[" + strconv.Itoa(i) + "]"
	case jsonvalue.KindObject:
		m := vis.value.Members()[i]
		child.value = m.Value
		child.path = vis.path + "." + m.Key
	}
	return child, true
}

// classify maps a value to its node type, label and scalar payload.
func classify(v jsonvalue.Value) (Type, string, any) {
	switch v.Kind() {
	case jsonvalue.KindBool:
		return TypeBoolean, strconv.FormatBool(v.Boolean()), v.Boolean()
	case jsonvalue.KindNumber:
		f := normalizeZero(v.Float())
		return TypeNumber, FormatNumber(f), f
	case jsonvalue.KindString:
		return TypeString, truncateLabel(v.Str()), v.Str()
	case jsonvalue.KindArray:
		return TypeArray, "Array[" + strconv.Itoa(v.Len()) + "]", nil
	case jsonvalue.KindObject:
		return TypeObject, "Object", nil
	default:
		return TypeNull, "null", nil
	}
}

func truncateLabel(s string) string {
	if utf8.RuneCountInString(s) <= MaxLabelLength {
		return s
	}
	return string([]rune(s)[:MaxLabelLength]) + "..."
}
