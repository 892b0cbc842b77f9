// Package view holds the interactive state layered over a built tree: which
// containers are expanded, which nodes the current search highlights, and the
// zoom factor.
//
// A [State] is created fresh for every successfully built tree, seeded with
// every node expanded, nothing highlighted and zoom 1.0. It is not safe for
// concurrent use; callers that share one across goroutines serialize access
// (see session.Session.Do).
//
// Renderers read the state through [State.Visible] for the rows to draw or
// through [State.Snapshot] for a detached copy.
package view

import (
	"github.com/matzehuels/jsontree/pkg/observability"
	"github.com/matzehuels/jsontree/pkg/tree"
)

// State is the mutable view over one tree.
type State struct {
	tree        *tree.Tree
	expanded    map[string]bool
	highlighted map[string]bool
	zoom        float64

	query  string
	mode   Mode
	result SearchResult
}

// New returns the initial view of t. A nil tree yields an empty view.
func New(t *tree.Tree) *State {
	if t == nil {
		t = &tree.Tree{}
	}
	s := &State{
		tree:        t,
		expanded:    make(map[string]bool, len(t.Nodes)),
		highlighted: make(map[string]bool),
		zoom:        DefaultZoom,
		mode:        ModeLiteral,
		result:      SearchResult{Outcome: OutcomeNone},
	}
	s.ExpandAll()
	return s
}

// Tree returns the tree this view was created for.
func (s *State) Tree() *tree.Tree { return s.tree }

// Toggle flips whether id is expanded and reports the new state. Descendants
// keep their own flags, so re-expanding a node restores its subtree as it was.
func (s *State) Toggle(id string) bool {
	if s.expanded[id] {
		delete(s.expanded, id)
	} else {
		s.expanded[id] = true
	}
	observability.View().OnToggle(id, s.expanded[id])
	return s.expanded[id]
}

// Expand marks id as expanded.
func (s *State) Expand(id string) { s.expanded[id] = true }

// Collapse marks id as collapsed.
func (s *State) Collapse(id string) { delete(s.expanded, id) }

// IsExpanded reports whether id is expanded.
func (s *State) IsExpanded(id string) bool { return s.expanded[id] }

// ExpandAll marks every node as expanded.
func (s *State) ExpandAll() {
	for _, n := range s.tree.Nodes {
		s.expanded[n.ID] = true
	}
}

// CollapseAll clears the expanded set.
func (s *State) CollapseAll() {
	clear(s.expanded)
}

// IsHighlighted reports whether id matched the current search.
func (s *State) IsHighlighted(id string) bool { return s.highlighted[id] }

// Children returns the child nodes of id in edge order.
func (s *State) Children(id string) []*tree.Node { return s.tree.ChildNodes(id) }

// Roots returns the nodes with no parent.
func (s *State) Roots() []*tree.Node { return s.tree.Roots() }

// IsRoot reports whether id is a root node.
func (s *State) IsRoot(id string) bool { return s.tree.IsRoot(id) }

// ExpandedIDs returns the expanded node ids in node order.
func (s *State) ExpandedIDs() []string { return s.collect(s.expanded) }

// HighlightedIDs returns the highlighted node ids in node order.
func (s *State) HighlightedIDs() []string { return s.collect(s.highlighted) }

func (s *State) collect(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for _, n := range s.tree.Nodes {
		if set[n.ID] {
			out = append(out, n.ID)
		}
	}
	return out
}
