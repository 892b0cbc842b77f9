// Package canvas rasterizes a tree onto a fixed grid and encodes it as PNG.
//
// Every node is drawn as a [BoxWidth]×[BoxHeight] box at its layout position
// offset by [Margin]; every edge as a straight line from the bottom centre of
// the parent box to the top centre of the child box. The canvas is at least
// [MinWidth]×[MinHeight] and grows to fit the layout up to [MaxPixels].
package canvas

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/fogleman/gg"

	"github.com/matzehuels/jsontree/pkg/errors"
	"github.com/matzehuels/jsontree/pkg/render"
	"github.com/matzehuels/jsontree/pkg/tree"
)

// Geometry of the exported image, in pixels.
const (
	BoxWidth  = 100.0
	BoxHeight = 40.0
	Margin    = 20.0
	MinWidth  = 800
	MinHeight = 600
	LineWidth = 2.0

	// MaxLabel is the longest label drawn in full; longer labels keep
	// their first LabelKeep characters followed by "..".
	MaxLabel  = 12
	LabelKeep = 10
)

// MaxPixels bounds the canvas area. An RGBA canvas costs four bytes per
// pixel, so this caps one render at 128 MiB.
const MaxPixels = 32 << 20

// Filename is the download name of the image export.
const Filename = "tree-visualization.png"

// Option configures PNG rendering.
type Option func(*renderer)

type renderer struct {
	theme       render.Theme
	highlighted map[string]bool
}

// WithTheme selects the palette.
func WithTheme(t render.Theme) Option {
	return func(r *renderer) { r.theme = t }
}

// WithHighlighted fills the given node ids with the highlight colour.
func WithHighlighted(ids map[string]bool) Option {
	return func(r *renderer) { r.highlighted = ids }
}

// Bounds returns the canvas size for t.
func Bounds(t *tree.Tree) (width, height int) {
	var maxX, maxY float64
	for _, n := range t.Nodes {
		maxX = math.Max(maxX, n.Position.X+BoxWidth)
		maxY = math.Max(maxY, n.Position.Y+BoxHeight)
	}
	width = max(MinWidth, int(math.Ceil(maxX+2*Margin)))
	height = max(MinHeight, int(math.Ceil(maxY+2*Margin)))
	return width, height
}

// TruncateLabel shortens a label to fit a box.
func TruncateLabel(s string) string {
	if utf8.RuneCountInString(s) <= MaxLabel {
		return s
	}
	return string([]rune(s)[:LabelKeep]) + ".."
}

// RenderPNG draws t and returns the encoded PNG. An empty tree is rejected by
// the caller; here it simply produces a blank canvas.
func RenderPNG(ctx context.Context, t *tree.Tree, opts ...Option) ([]byte, error) {
	r := renderer{theme: render.DefaultTheme}
	for _, opt := range opts {
		opt(&r)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	w, h := Bounds(t)
	if int64(w)*int64(h) > MaxPixels {
		return nil, errors.New(errors.ErrCodeTooLarge,
			"image would be %dx%d pixels, more than the %d pixel limit; export as svg or dot instead", w, h, MaxPixels)
	}

	pal := r.theme.Palette()
	dc := gg.NewContext(w, h)

	dc.SetHexColor(pal.Background)
	dc.Clear()

	dc.SetLineWidth(LineWidth)
	dc.SetHexColor(pal.Edge)
	for _, e := range t.Edges {
		src, ok1 := t.Node(e.Source)
		dst, ok2 := t.Node(e.Target)
		if !ok1 || !ok2 {
			continue
		}
		dc.DrawLine(
			src.Position.X+Margin+BoxWidth/2, src.Position.Y+Margin+BoxHeight,
			dst.Position.X+Margin+BoxWidth/2, dst.Position.Y+Margin,
		)
		dc.Stroke()
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i := range t.Nodes {
		r.drawNode(dc, pal, &t.Nodes[i])
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *renderer) drawNode(dc *gg.Context, pal render.Palette, n *tree.Node) {
	x, y := n.Position.X+Margin, n.Position.Y+Margin
	hl := r.highlighted[n.ID]

	fill, text := pal.Surface, pal.Text
	if hl {
		fill, text = pal.NodeFill(n.Type, true), pal.NodeText(true)
	}

	dc.DrawRectangle(x, y, BoxWidth, BoxHeight)
	dc.SetHexColor(fill)
	dc.FillPreserve()
	dc.SetHexColor(pal.Border)
	dc.SetLineWidth(LineWidth)
	dc.Stroke()

	dc.SetHexColor(text)
	dc.DrawStringAnchored(TruncateLabel(n.Label), x+BoxWidth/2, y+BoxHeight/2, 0.5, 0.5)
}
