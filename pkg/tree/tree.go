package tree

import (
	"fmt"
	"slices"
	"sync"
)

// Tree is the node/edge graph of one JSON document.
//
// Nodes are in pre-order and Edges in the order the builder emitted them.
// Lookup methods build an index on first use; a Tree must not be modified
// after the first lookup.
type Tree struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`

	once sync.Once
	idx  *index
}

// index holds derived lookups over a Tree.
type index struct {
	byID     map[string]int
	children map[string][]string
	parent   map[string]string
}

func (t *Tree) index() *index {
	t.once.Do(func() {
		idx := &index{
			byID:     make(map[string]int, len(t.Nodes)),
			children: make(map[string][]string),
			parent:   make(map[string]string, len(t.Edges)),
		}
		for i, n := range t.Nodes {
			idx.byID[n.ID] = i
		}
		for _, e := range t.Edges {
			idx.children[e.Source] = append(idx.children[e.Source], e.Target)
			idx.parent[e.Target] = e.Source
		}
		t.idx = idx
	})
	return t.idx
}

// NodeCount returns the number of nodes.
func (t *Tree) NodeCount() int { return len(t.Nodes) }

// EdgeCount returns the number of edges.
func (t *Tree) EdgeCount() int { return len(t.Edges) }

// IsEmpty reports whether the tree has no nodes.
func (t *Tree) IsEmpty() bool { return t == nil || len(t.Nodes) == 0 }

// Node returns the node with the given id.
func (t *Tree) Node(id string) (*Node, bool) {
	i, ok := t.index().byID[id]
	if !ok {
		return nil, false
	}
	return &t.Nodes[i], true
}

// Children returns the ids of id's immediate children in edge order.
func (t *Tree) Children(id string) []string {
	return t.index().children[id]
}

// ChildNodes returns id's immediate children. Edges pointing at unknown
// nodes are skipped.
func (t *Tree) ChildNodes(id string) []*Node {
	ids := t.Children(id)
	out := make([]*Node, 0, len(ids))
	for _, c := range ids {
		if n, ok := t.Node(c); ok {
			out = append(out, n)
		}
	}
	return out
}

// Parent returns the id of id's parent. The root has none.
func (t *Tree) Parent(id string) (string, bool) {
	p, ok := t.index().parent[id]
	return p, ok
}

// IsRoot reports whether id is a known node with no incoming edge.
func (t *Tree) IsRoot(id string) bool {
	idx := t.index()
	if _, ok := idx.byID[id]; !ok {
		return false
	}
	_, hasParent := idx.parent[id]
	return !hasParent
}

// Roots returns the nodes with no incoming edge, in node order.
// A tree produced by Build has exactly one.
func (t *Tree) Roots() []*Node {
	var out []*Node
	for i := range t.Nodes {
		if t.IsRoot(t.Nodes[i].ID) {
			out = append(out, &t.Nodes[i])
		}
	}
	return out
}

// Paths returns every node path sorted lexicographically.
func (t *Tree) Paths() []string {
	paths := make([]string, len(t.Nodes))
	for i, n := range t.Nodes {
		paths[i] = n.Path
	}
	slices.Sort(paths)
	return paths
}

// Validate checks the structural invariants of a tree: unique ids, edges
// between known nodes, one parent per node and exactly one root. Paths are
// not checked; keys containing "." or "[" can give two nodes the same path.
// Trees read from external input should be validated before use.
func (t *Tree) Validate() error {
	if len(t.Nodes) == 0 {
		if len(t.Edges) > 0 {
			return fmt.Errorf("tree has %d edges but no nodes", len(t.Edges))
		}
		return nil
	}

	ids := make(map[string]bool, len(t.Nodes))
	for _, n := range t.Nodes {
		if ids[n.ID] {
			return fmt.Errorf("duplicate node id %s", n.ID)
		}
		ids[n.ID] = true
	}

	parents := make(map[string]string, len(t.Edges))
	for _, e := range t.Edges {
		if !ids[e.Source] || !ids[e.Target] {
			return fmt.Errorf("edge %s references unknown node", e.ID)
		}
		if p, ok := parents[e.Target]; ok {
			return fmt.Errorf("node %s has two parents (%s, %s)", e.Target, p, e.Source)
		}
		parents[e.Target] = e.Source
	}

	if roots := len(t.Nodes) - len(parents); roots != 1 {
		return fmt.Errorf("tree has %d roots, want 1", roots)
	}
	return nil
}
