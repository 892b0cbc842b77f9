package view

import (
	"slices"

	"github.com/matzehuels/jsontree/pkg/tree"
)

// Snapshot is a detached, read-only copy of the view for renderers and the
// HTTP API. Mutating it does not affect the State it came from.
type Snapshot struct {
	Nodes       []tree.Node  `json:"nodes"`
	Edges       []tree.Edge  `json:"edges"`
	Expanded    []string     `json:"expanded"`
	Highlighted []string     `json:"highlighted"`
	Zoom        float64      `json:"zoom"`
	Query       string       `json:"query"`
	Mode        Mode         `json:"mode"`
	Result      SearchResult `json:"result"`
	Message     string       `json:"message,omitempty"`
}

// Snapshot copies the current view.
func (s *State) Snapshot() Snapshot {
	res := s.result
	res.Matches = slices.Clone(res.Matches)
	return Snapshot{
		Nodes:       append([]tree.Node{}, s.tree.Nodes...),
		Edges:       append([]tree.Edge{}, s.tree.Edges...),
		Expanded:    s.ExpandedIDs(),
		Highlighted: s.HighlightedIDs(),
		Zoom:        s.zoom,
		Query:       s.query,
		Mode:        s.mode,
		Result:      res,
		Message:     res.Message(),
	}
}

// HighlightSet returns the highlighted ids as a set.
func (sn Snapshot) HighlightSet() map[string]bool {
	set := make(map[string]bool, len(sn.Highlighted))
	for _, id := range sn.Highlighted {
		set[id] = true
	}
	return set
}
