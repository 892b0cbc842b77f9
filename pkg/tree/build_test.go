package tree

import (
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/jsontree/pkg/jsonvalue"
)

func mustBuild(t *testing.T, src string) *Tree {
	t.Helper()
	v, err := jsonvalue.ParseString(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return Build(v)
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantNodes int
		wantEdges int
		check     func(t *testing.T, tr *Tree)
	}{
		{
			name:      "ScalarRoot",
			input:     `42`,
			wantNodes: 1,
			wantEdges: 0,
			check: func(t *testing.T, tr *Tree) {
				n := tr.Nodes[0]
				if n.ID != "node-0" || n.Path != "$" || n.Type != TypeNumber || n.Label != "42" {
					t.Errorf("root = %+v", n)
				}
				if n.Value != 42.0 {
					t.Errorf("value = %v, want 42", n.Value)
				}
			},
		},
		{
			name:      "EmptyObject",
			input:     `{}`,
			wantNodes: 1,
			wantEdges: 0,
			check: func(t *testing.T, tr *Tree) {
				n := tr.Nodes[0]
				if n.Type != TypeObject || n.Label != "Object" || n.HasValue() {
					t.Errorf("root = %+v", n)
				}
			},
		},
		{
			name:      "EmptyArray",
			input:     `[]`,
			wantNodes: 1,
			wantEdges: 0,
			check: func(t *testing.T, tr *Tree) {
				if tr.Nodes[0].Label != "Array[0]" {
					t.Errorf("label = %q, want Array[0]", tr.Nodes[0].Label)
				}
			},
		},
		{
			name:      "MixedContainer",
			input:     `{"a": 1, "b": [true, null]}`,
			wantNodes: 5,
			wantEdges: 4,
			check: func(t *testing.T, tr *Tree) {
				want := []struct {
					id, path, label string
					typ             Type
					x, y            float64
				}{
					{"node-0", "$", "Object", TypeObject, 0, 0},
					{"node-1", "$.a", "1", TypeNumber, 0, 100},
					{"node-2", "$.b", "Array[2]", TypeArray, 150, 100},
					{"node-3", "$.b[0]", "true", TypeBoolean, 0, 200},
					{"node-4", "$.b[1]", "null", TypeNull, 150, 200},
				}
				for i, w := range want {
					n := tr.Nodes[i]
					if n.ID != w.id || n.Path != w.path || n.Label != w.label || n.Type != w.typ {
						t.Errorf("node %d = %+v, want %+v", i, n, w)
					}
					if n.Position.X != w.x || n.Position.Y != w.y {
						t.Errorf("node %d position = %+v, want (%v, %v)", i, n.Position, w.x, w.y)
					}
				}
				if tr.Nodes[3].Value != true {
					t.Errorf("$.b[0] value = %v, want true", tr.Nodes[3].Value)
				}
				if tr.Nodes[4].HasValue() {
					t.Error("null node should not carry a value")
				}
			},
		},
		{
			name:      "EdgesAppendedWhenSubtreeCompletes",
			input:     `{"a": 1, "b": [true, null]}`,
			wantNodes: 5,
			wantEdges: 4,
			check: func(t *testing.T, tr *Tree) {
				var got []string
				for _, e := range tr.Edges {
					got = append(got, e.ID)
				}
				want := []string{
					"edge-node-0-node-1",
					"edge-node-2-node-3",
					"edge-node-2-node-4",
					"edge-node-0-node-2",
				}
				if !reflect.DeepEqual(got, want) {
					t.Errorf("edges = %v, want %v", got, want)
				}
			},
		},
		{
			name:      "ArrayThenObjectPath",
			input:     `[1, 2, {"a": 3}]`,
			wantNodes: 5,
			wantEdges: 4,
			check: func(t *testing.T, tr *Tree) {
				n, ok := tr.Node("node-4")
				if !ok {
					t.Fatal("node-4 missing")
				}
				if n.Path != "$[2].a" {
					t.Errorf("path = %q, want $[2].a", n.Path)
				}
				if n.Position.Y != 200 {
					t.Errorf("y = %v, want 200", n.Position.Y)
				}
			},
		},
		{
			name:      "LevelCounterSharedAcrossParents",
			input:     `[[1, 2], [3]]`,
			wantNodes: 6,
			wantEdges: 5,
			check: func(t *testing.T, tr *Tree) {
				xs := map[string]float64{}
				for _, n := range tr.Nodes {
					xs[n.Path] = n.Position.X
				}
				want := map[string]float64{
					"$": 0, "$[0]": 0, "$[1]": 150,
					"$[0][0]": 0, "$[0][1]": 150, "$[1][0]": 300,
				}
				if !reflect.DeepEqual(xs, want) {
					t.Errorf("x positions = %v, want %v", xs, want)
				}
			},
		},
		{
			name:      "LongStringTruncated",
			input:     `{"s": "abcdefghijklmnopqrstuvwxy"}`,
			wantNodes: 2,
			wantEdges: 1,
			check: func(t *testing.T, tr *Tree) {
				n := tr.Nodes[1]
				if n.Label != "abcdefghijklmnopqrst..." {
					t.Errorf("label = %q", n.Label)
				}
				if n.Value != "abcdefghijklmnopqrstuvwxy" {
					t.Errorf("value = %v, want full string", n.Value)
				}
			},
		},
		{
			name:      "TwentyCharsNotTruncated",
			input:     `"abcdefghijklmnopqrst"`,
			wantNodes: 1,
			check: func(t *testing.T, tr *Tree) {
				if tr.Nodes[0].Label != "abcdefghijklmnopqrst" {
					t.Errorf("label = %q", tr.Nodes[0].Label)
				}
			},
		},
		{
			name:      "TruncationCountsRunes",
			input:     `"ääääääääääääääääääääää"`,
			wantNodes: 1,
			check: func(t *testing.T, tr *Tree) {
				want := strings.Repeat("ä", 20) + "..."
				if tr.Nodes[0].Label != want {
					t.Errorf("label = %q, want %q", tr.Nodes[0].Label, want)
				}
			},
		},
		{
			name:      "DuplicateKeysCollapse",
			input:     `{"a": 1, "b": 2, "a": 3}`,
			wantNodes: 3,
			wantEdges: 2,
			check: func(t *testing.T, tr *Tree) {
				if tr.Nodes[1].Path != "$.a" || tr.Nodes[1].Value != 3.0 {
					t.Errorf("first child = %+v, want $.a = 3", tr.Nodes[1])
				}
			},
		},
		{
			name:      "NegativeZero",
			input:     `-0`,
			wantNodes: 1,
			check: func(t *testing.T, tr *Tree) {
				if tr.Nodes[0].Label != "0" {
					t.Errorf("label = %q, want 0", tr.Nodes[0].Label)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := mustBuild(t, tt.input)
			if tr.NodeCount() != tt.wantNodes {
				t.Errorf("nodes = %d, want %d", tr.NodeCount(), tt.wantNodes)
			}
			if tr.EdgeCount() != tt.wantEdges {
				t.Errorf("edges = %d, want %d", tr.EdgeCount(), tt.wantEdges)
			}
			if err := tr.Validate(); err != nil {
				t.Errorf("Validate: %v", err)
			}
			if tt.check != nil {
				tt.check(t, tr)
			}
		})
	}
}

func TestBuildInvariants(t *testing.T) {
	tr := mustBuild(t, testDocument)

	if tr.EdgeCount() != tr.NodeCount()-1 {
		t.Errorf("edges = %d, want nodes-1 = %d", tr.EdgeCount(), tr.NodeCount()-1)
	}
	if roots := tr.Roots(); len(roots) != 1 || roots[0].ID != "node-0" {
		t.Errorf("roots = %v, want [node-0]", roots)
	}

	seen := map[string]bool{}
	for _, n := range tr.Nodes {
		if seen[n.Path] {
			t.Errorf("duplicate path %s", n.Path)
		}
		seen[n.Path] = true

		kids := tr.Children(n.ID)
		switch n.Type {
		case TypeArray:
			want := "Array[" + itoa(len(kids)) + "]"
			if n.Label != want {
				t.Errorf("%s label = %q, want %q", n.Path, n.Label, want)
			}
		case TypeObject:
		default:
			if len(kids) != 0 {
				t.Errorf("scalar %s has %d children", n.Path, len(kids))
			}
		}
		for _, c := range kids {
			child, _ := tr.Node(c)
			parent, _ := tr.Node(n.ID)
			if child.Position.Y != parent.Position.Y+RowHeight {
				t.Errorf("%s not one row below %s", child.Path, parent.Path)
			}
			if !strings.HasPrefix(child.Path, parent.Path) {
				t.Errorf("%s does not extend %s", child.Path, parent.Path)
			}
		}
	}
}

func TestBuildDeterministic(t *testing.T) {
	a := mustBuild(t, testDocument)
	b := mustBuild(t, testDocument)
	if !reflect.DeepEqual(a.Nodes, b.Nodes) || !reflect.DeepEqual(a.Edges, b.Edges) {
		t.Error("two builds of the same document differ")
	}
	if b.Nodes[0].ID != "node-0" {
		t.Errorf("second build starts at %s, want node-0", b.Nodes[0].ID)
	}
}

func TestBuildDeepNesting(t *testing.T) {
	const depth = jsonvalue.MaxDepth
	src := strings.Repeat("[", depth) + strings.Repeat("]", depth)
	tr := mustBuild(t, src)

	if tr.NodeCount() != depth {
		t.Fatalf("nodes = %d, want %d", tr.NodeCount(), depth)
	}
	last := tr.Nodes[depth-1]
	if want := "$" + strings.Repeat("[0]", depth-1); last.Path != want {
		t.Errorf("deepest path has length %d, want %d", len(last.Path), len(want))
	}
	if last.Position.Y != float64(depth-1)*RowHeight {
		t.Errorf("deepest y = %v", last.Position.Y)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{100, "100"},
		{-3, "-3"},
		{0.1, "0.1"},
		{1.5, "1.5"},
		{0.000001, "0.000001"},
		{1e-7, "1e-7"},
		{1.5e-7, "1.5e-7"},
		{123456789012345680000, "123456789012345680000"},
		{1e21, "1e+21"},
		{-2.5e30, "-2.5e+30"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDisplayValue(t *testing.T) {
	tr := mustBuild(t, `{"o": {}, "a": [], "s": "x", "n": 2, "b": false, "z": null}`)
	want := map[string]string{
		"$":   "{}",
		"$.o": "{}",
		"$.a": "[]",
		"$.s": `"x"`,
		"$.n": "2",
		"$.b": "false",
		"$.z": "null",
	}
	for _, n := range tr.Nodes {
		if got := n.DisplayValue(); got != want[n.Path] {
			t.Errorf("%s DisplayValue = %q, want %q", n.Path, got, want[n.Path])
		}
	}
}

func itoa(i int) string { return FormatNumber(float64(i)) }

const testDocument = `{
  "name": "Asha",
  "age": 31,
  "verified": true,
  "manager": null,
  "address": {"city": "Bangalore", "zip": "560018", "geo": {"lat": 12.97, "lng": 77.59}},
  "hobbies": ["reading", "cooking", "a very long hobby description"],
  "scores": [[1, 2], [3]]
}`
