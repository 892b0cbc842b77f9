// Package render holds the visual vocabulary shared by every jsontree
// renderer: the dark and light [Theme]s, their [Palette]s and the colour
// assigned to each node type.
//
// # Renderers
//
// Two export renderers live in subpackages:
//
//   - [canvas]: draws the tree on a fixed grid and encodes it as PNG. Node
//     boxes sit at the layout positions computed by the tree builder.
//   - [nodelink]: converts the tree to Graphviz DOT and lets Graphviz lay it
//     out, producing DOT, SVG or PNG.
//
// The terminal viewer (internal/tui) uses the same palettes through
// lipgloss, so a theme looks alike in the terminal and in exported images.
//
// # Usage
//
//	theme, err := render.ParseTheme("light")
//	pal := theme.Palette()
//	fill := pal.NodeFill(tree.TypeString, false) // "#f97316"
package render
