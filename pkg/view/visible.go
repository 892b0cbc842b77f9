package view

import "github.com/matzehuels/jsontree/pkg/tree"

// Row is one line of the rendered tree.
type Row struct {
	Node        *tree.Node
	Depth       int
	Expanded    bool
	HasChildren bool
	Highlighted bool
}

// Visible returns the rows a renderer draws, in pre-order. Roots are always
// visible; the children of a node are visible only while it is expanded.
func (s *State) Visible() []Row {
	type item struct {
		node  *tree.Node
		depth int
	}

	roots := s.tree.Roots()
	stack := make([]item, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, item{roots[i], 0})
	}

	var rows []Row
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		kids := s.tree.ChildNodes(it.node.ID)
		row := Row{
			Node:        it.node,
			Depth:       it.depth,
			Expanded:    s.expanded[it.node.ID],
			HasChildren: len(kids) > 0,
			Highlighted: s.highlighted[it.node.ID],
		}
		rows = append(rows, row)

		if !row.Expanded {
			continue
		}
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, item{kids[i], it.depth + 1})
		}
	}
	return rows
}
