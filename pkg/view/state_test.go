package view

import (
	"errors"
	"reflect"
	"regexp"
	"testing"

	"github.com/matzehuels/jsontree/pkg/jsonvalue"
	"github.com/matzehuels/jsontree/pkg/tree"
)

const sampleDocument = `{
  "user": {
    "id": 1,
    "name": "Arvind Kumar",
    "email": "arvindkumar@gmail.com",
    "address": {
      "street": "silk institute",
      "city": "Bangalore",
      "zip": "560018"
    },
    "hobbies": [
      "reading",
      "cooking",
      "coding"
    ]
  }
}`

func newState(t *testing.T, src string) *State {
	t.Helper()
	v, err := jsonvalue.ParseString(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return New(tree.Build(v))
}

func pathsOf(s *State, ids []string) []string {
	var out []string
	for _, id := range ids {
		n, _ := s.Tree().Node(id)
		out = append(out, n.Path)
	}
	return out
}

func TestNew(t *testing.T) {
	s := newState(t, sampleDocument)

	if got := len(s.ExpandedIDs()); got != s.Tree().NodeCount() {
		t.Errorf("expanded = %d, want all %d", got, s.Tree().NodeCount())
	}
	if len(s.HighlightedIDs()) != 0 {
		t.Error("new view should highlight nothing")
	}
	if s.Zoom() != 1.0 {
		t.Errorf("zoom = %v, want 1.0", s.Zoom())
	}
	if s.Result().Outcome != OutcomeNone {
		t.Errorf("outcome = %q, want none", s.Result().Outcome)
	}
}

func TestNewNilTree(t *testing.T) {
	s := New(nil)
	if rows := s.Visible(); len(rows) != 0 {
		t.Errorf("rows = %d, want 0", len(rows))
	}
	if res := s.Search("x", ModeLiteral); res.Outcome != OutcomeNoMatches {
		t.Errorf("outcome = %q, want no_matches", res.Outcome)
	}
}

func TestToggle(t *testing.T) {
	s := newState(t, sampleDocument)
	all := len(s.Visible())

	// node-5 is $.user.address with three children
	if s.Toggle("node-5") {
		t.Fatal("first toggle should collapse")
	}
	if got := len(s.Visible()); got != all-3 {
		t.Errorf("visible after collapse = %d, want %d", got, all-3)
	}

	// collapsing the parent does not touch the child's flag
	s.Toggle("node-1")
	if got := len(s.Visible()); got != 2 {
		t.Errorf("visible with user collapsed = %d, want 2", got)
	}
	s.Toggle("node-1")
	if s.IsExpanded("node-5") {
		t.Error("address should still be collapsed after re-expanding user")
	}
	if !s.Toggle("node-5") {
		t.Error("second toggle should expand")
	}
	if got := len(s.Visible()); got != all {
		t.Errorf("visible after restore = %d, want %d", got, all)
	}
}

func TestExpandCollapseAll(t *testing.T) {
	s := newState(t, sampleDocument)
	s.CollapseAll()
	rows := s.Visible()
	if len(rows) != 1 || rows[0].Node.Path != "$" || rows[0].Expanded {
		t.Errorf("rows after CollapseAll = %+v", rows)
	}
	s.ExpandAll()
	if got := len(s.Visible()); got != s.Tree().NodeCount() {
		t.Errorf("rows after ExpandAll = %d", got)
	}
	s.Collapse("node-0")
	s.Expand("node-0")
	if !s.IsExpanded("node-0") {
		t.Error("Expand should mark node expanded")
	}
}

func TestVisible(t *testing.T) {
	s := newState(t, `{"a": [1, 2], "b": {}}`)
	rows := s.Visible()

	want := []struct {
		path        string
		depth       int
		hasChildren bool
	}{
		{"$", 0, true},
		{"$.a", 1, true},
		{"$.a[0]", 2, false},
		{"$.a[1]", 2, false},
		{"$.b", 1, false},
	}
	if len(rows) != len(want) {
		t.Fatalf("rows = %d, want %d", len(rows), len(want))
	}
	for i, w := range want {
		r := rows[i]
		if r.Node.Path != w.path || r.Depth != w.depth || r.HasChildren != w.hasChildren {
			t.Errorf("row %d = {%s %d %v}, want %+v", i, r.Node.Path, r.Depth, r.HasChildren, w)
		}
	}
}

func TestRootsAndChildren(t *testing.T) {
	s := newState(t, sampleDocument)
	if !s.IsRoot("node-0") || s.IsRoot("node-1") || s.IsRoot("node-99") {
		t.Error("only node-0 should be a root")
	}
	if roots := s.Roots(); len(roots) != 1 {
		t.Errorf("roots = %d, want 1", len(roots))
	}
	kids := s.Children("node-9")
	var got []string
	for _, k := range kids {
		got = append(got, k.Label)
	}
	if want := []string{"reading", "cooking", "coding"}; !reflect.DeepEqual(got, want) {
		t.Errorf("hobbies children = %v, want %v", got, want)
	}
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		query     string
		mode      Mode
		outcome   Outcome
		message   string
		wantPaths []string
	}{
		{
			name:      "ZipCode",
			doc:       sampleDocument,
			query:     "560018",
			mode:      ModeLiteral,
			outcome:   OutcomeMatches,
			message:   "Found 1 match",
			wantPaths: []string{"$.user.address.zip"},
		},
		{
			name:    "CaseInsensitive",
			doc:     sampleDocument,
			query:   "O",
			mode:    ModeLiteral,
			outcome: OutcomeMatches,
			message: "Found 9 matches",
			wantPaths: []string{
				"$", "$.user", "$.user.email", "$.user.address", "$.user.address.city",
				"$.user.hobbies", "$.user.hobbies[0]", "$.user.hobbies[1]", "$.user.hobbies[2]",
			},
		},
		{
			name:    "NoMatches",
			doc:     sampleDocument,
			query:   "zzz",
			mode:    ModeLiteral,
			outcome: OutcomeNoMatches,
			message: "No matches found",
		},
		{
			name:    "BlankClears",
			doc:     sampleDocument,
			query:   "   ",
			mode:    ModeLiteral,
			outcome: OutcomeNone,
			message: "",
		},
		{
			name:      "PatternIsLiteral",
			doc:       `{"a.b": 1, "axb": 2}`,
			query:     "a.b",
			mode:      ModePattern,
			outcome:   OutcomeMatches,
			message:   "Found 1 match",
			wantPaths: []string{"$.a.b"},
		},
		{
			name:      "PatternMetacharacters",
			doc:       `{"k": "(x)*", "j": "xx"}`,
			query:     "(X)*",
			mode:      ModePattern,
			outcome:   OutcomeMatches,
			message:   "Found 1 match",
			wantPaths: []string{"$.k"},
		},
		{
			name:      "NumberValueString",
			doc:       `[1e21, 5]`,
			query:     "e+21",
			mode:      ModeLiteral,
			outcome:   OutcomeMatches,
			message:   "Found 1 match",
			wantPaths: []string{"$[0]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newState(t, tt.doc)
			s.Search("a", ModeLiteral) // stale highlights must be replaced

			res := s.Search(tt.query, tt.mode)
			if res.Outcome != tt.outcome {
				t.Errorf("outcome = %q, want %q", res.Outcome, tt.outcome)
			}
			if res.Message() != tt.message {
				t.Errorf("message = %q, want %q", res.Message(), tt.message)
			}
			if got := pathsOf(s, s.HighlightedIDs()); !reflect.DeepEqual(got, tt.wantPaths) {
				t.Errorf("highlighted = %v, want %v", got, tt.wantPaths)
			}
			if res.Count != len(tt.wantPaths) {
				t.Errorf("count = %d, want %d", res.Count, len(tt.wantPaths))
			}
		})
	}
}

func TestSearchLeavesTreeUntouched(t *testing.T) {
	s := newState(t, sampleDocument)
	before := s.Snapshot()
	s.Search("o", ModePattern)
	after := s.Snapshot()
	if !reflect.DeepEqual(before.Nodes, after.Nodes) || !reflect.DeepEqual(before.Edges, after.Edges) {
		t.Error("search modified the tree")
	}
	if !reflect.DeepEqual(before.Expanded, after.Expanded) {
		t.Error("search modified the expanded set")
	}
}

func TestSearchInvalidPattern(t *testing.T) {
	orig := compilePattern
	t.Cleanup(func() { compilePattern = orig })
	compilePattern = func(string) (*regexp.Regexp, error) { return nil, errors.New("bad") }

	s := newState(t, sampleDocument)
	s.Search("Bangalore", ModeLiteral)
	if len(s.HighlightedIDs()) != 1 {
		t.Fatal("literal search should still work")
	}

	res := s.Search("Bangalore", ModePattern)
	if res.Outcome != OutcomeInvalidPattern || res.Message() != "Invalid regex pattern" {
		t.Errorf("result = %+v (%q)", res, res.Message())
	}
	if len(s.HighlightedIDs()) != 0 {
		t.Error("invalid pattern should clear highlights")
	}
	if s.Tree().NodeCount() != 13 {
		t.Errorf("tree changed: %d nodes", s.Tree().NodeCount())
	}
}

func TestClearSearch(t *testing.T) {
	s := newState(t, sampleDocument)
	s.Search("o", ModeLiteral)
	s.ClearSearch()
	if len(s.HighlightedIDs()) != 0 || s.Result().Message() != "" {
		t.Error("ClearSearch should drop highlights and message")
	}
	if q, _ := s.Query(); q != "" {
		t.Errorf("query = %q, want empty", q)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeLiteral, false},
		{"literal", ModeLiteral, false},
		{"Pattern", ModePattern, false},
		{"regex", ModePattern, false},
		{"glob", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseMode(%q) = %q, %v", tt.in, got, err)
		}
	}
}
