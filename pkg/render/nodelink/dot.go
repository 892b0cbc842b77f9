package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/jsontree/pkg/render"
	"github.com/matzehuels/jsontree/pkg/tree"
)

// Export filenames.
const (
	FilenameSVG = "tree-visualization.svg"
	FilenameDOT = "tree-visualization.dot"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Theme selects background and edge colours. Zero value is dark.
	Theme render.Theme

	// Highlighted node ids are filled with the highlight colour.
	Highlighted map[string]bool

	// Collapsed node ids are drawn, but their descendants are not.
	Collapsed map[string]bool

	// Values adds each scalar's display value as a second label line.
	Values bool
}

// ToDOT converts a tree to Graphviz DOT. Nodes are coloured by type and carry
// their path as tooltip.
func ToDOT(t *tree.Tree, opts Options) string {
	pal := opts.Theme.Palette()
	hidden := hiddenNodes(t, opts.Collapsed)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", pal.Background)
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=\"monospace\", fontsize=12, margin=\"0.2,0.1\"];\n")
	fmt.Fprintf(&buf, "  edge [color=%q, arrowhead=none, penwidth=2];\n", pal.Edge)
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for i := range t.Nodes {
		n := &t.Nodes[i]
		if hidden[n.ID] {
			continue
		}
		attrs := fmtAttrs(n, pal, opts)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range t.Edges {
		if hidden[e.Target] {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(n *tree.Node, pal render.Palette, opts Options) []string {
	hl := opts.Highlighted[n.ID]
	label := n.Label
	if opts.Values && !n.Type.IsContainer() {
		label += "\n" + n.DisplayValue()
	}
	return []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("tooltip=%q", n.Path),
		fmt.Sprintf("fillcolor=%q", pal.NodeFill(n.Type, hl)),
		fmt.Sprintf("fontcolor=%q", pal.NodeText(hl)),
		fmt.Sprintf("color=%q", pal.NodeFill(n.Type, hl)),
	}
}

// hiddenNodes returns the descendants of collapsed nodes.
func hiddenNodes(t *tree.Tree, collapsed map[string]bool) map[string]bool {
	hidden := make(map[string]bool)
	if len(collapsed) == 0 {
		return hidden
	}
	// Nodes are in pre-order, so a parent is always decided before its
	// children.
	for _, n := range t.Nodes {
		p, ok := t.Parent(n.ID)
		if ok && (hidden[p] || collapsed[p]) {
			hidden[n.ID] = true
		}
	}
	return hidden
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := renderDOT(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's <svg> tag (pt units, odd offsets) with
// one whose viewBox starts at the origin and whose size is in pixels.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
