package nodelink

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/jsontree/pkg/jsonvalue"
	"github.com/matzehuels/jsontree/pkg/render"
	"github.com/matzehuels/jsontree/pkg/tree"
)

func build(t *testing.T, src string) *tree.Tree {
	t.Helper()
	v, err := jsonvalue.ParseString(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return tree.Build(v)
}

func TestToDOT(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		opts    Options
		want    []string
		notWant []string
	}{
		{
			name: "Basic",
			src:  `{"a": [1]}`,
			want: []string{
				"digraph G",
				`"node-0" [label="Object"`,
				`tooltip="$.a[0]"`,
				`"node-0" -> "node-1";`,
				`"node-1" -> "node-2";`,
				`bgcolor="#0f172a"`,
			},
		},
		{
			name: "TypeColours",
			src:  `{"s": "x", "n": 1, "b": true, "z": null, "a": []}`,
			want: []string{
				`fillcolor="` + render.ColorObject + `"`,
				`fillcolor="` + render.ColorString + `"`,
				`fillcolor="` + render.ColorNumber + `"`,
				`fillcolor="` + render.ColorBoolean + `"`,
				`fillcolor="` + render.ColorNull + `"`,
				`fillcolor="` + render.ColorArray + `"`,
			},
			notWant: []string{render.ColorHighlight},
		},
		{
			name: "Highlighted",
			src:  `["x"]`,
			opts: Options{Highlighted: map[string]bool{"node-1": true}},
			want: []string{`fillcolor="` + render.ColorHighlight + `"`, `fontcolor="` + render.ColorHighlightText + `"`},
		},
		{
			name: "LightTheme",
			src:  `1`,
			opts: Options{Theme: render.ThemeLight},
			want: []string{`bgcolor="#ffffff"`},
		},
		{
			name:    "Collapsed",
			src:     `{"a": {"b": 1}, "c": 2}`,
			opts:    Options{Collapsed: map[string]bool{"node-1": true}},
			want:    []string{`"node-1"`, `"node-0" -> "node-1";`, `"node-0" -> "node-3";`},
			notWant: []string{`"node-2" [`, `-> "node-2"`},
		},
		{
			name: "Values",
			src:  `{"s": "hi"}`,
			opts: Options{Values: true},
			want: []string{`label="hi\n\"hi\""`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dot := ToDOT(build(t, tt.src), tt.opts)
			for _, w := range tt.want {
				if !strings.Contains(dot, w) {
					t.Errorf("DOT missing %s\n%s", w, dot)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(dot, w) {
					t.Errorf("DOT should not contain %s\n%s", w, dot)
				}
			}
		})
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 62.00 116.00" width="62" height="116"`) {
		t.Errorf("normalized = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("no viewBox should be untouched, got %s", got)
	}
}

func TestRenderSVG(t *testing.T) {
	dot := ToDOT(build(t, `{"a": [1, "two"]}`), Options{})
	svg, err := RenderSVG(context.Background(), dot)
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) || !bytes.Contains(svg, []byte("Array[2]")) {
		t.Errorf("unexpected SVG output: %.200s", svg)
	}
}

func TestRenderSVGInvalidDOT(t *testing.T) {
	if _, err := RenderSVG(context.Background(), "digraph {"); err == nil {
		t.Error("expected error for invalid DOT")
	}
}
