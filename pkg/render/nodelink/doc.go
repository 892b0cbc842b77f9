// Package nodelink renders trees as Graphviz node-link diagrams.
//
// # Usage
//
// Convert a tree to DOT, then render it:
//
//	dot := nodelink.ToDOT(t, nodelink.Options{Theme: render.ThemeLight})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// Graphviz computes its own top-down layout; the builder's grid positions
// are only used by the canvas exporter.
//
// # Options
//
//   - Theme: background and edge colours
//   - Highlighted: node ids drawn with the highlight fill (search matches)
//   - Collapsed: node ids whose descendants are omitted
//   - Values: add the scalar display value under each label
//
// Node fill follows the node type (object blue, array green, string orange,
// number purple, boolean pink, null gray). Each node's tooltip is its path.
package nodelink
