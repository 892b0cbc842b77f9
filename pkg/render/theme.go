package render

import (
	"strings"

	"github.com/matzehuels/jsontree/pkg/errors"
	"github.com/matzehuels/jsontree/pkg/tree"
)

// Theme selects a palette. It affects colours only, never layout.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// DefaultTheme is the theme a new session starts with.
const DefaultTheme = ThemeDark

// ParseTheme converts a theme name. The empty string selects DefaultTheme.
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultTheme, nil
	case ThemeDark:
		return ThemeDark, nil
	case ThemeLight:
		return ThemeLight, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidTheme, "unknown theme %q (want dark or light)", s)
	}
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// Palette returns the colours for t. Unknown themes get the dark palette.
func (t Theme) Palette() Palette {
	if t == ThemeLight {
		return lightPalette
	}
	return darkPalette
}

// Palette is a set of hex colours.
type Palette struct {
	Background string
	Surface    string // node box fill in the canvas export
	Border     string // node box outline
	Edge       string
	Text       string
	Muted      string
}

var (
	darkPalette = Palette{
		Background: "#0f172a",
		Surface:    "#1e293b",
		Border:     "#475569",
		Edge:       "#64748b",
		Text:       "#e2e8f0",
		Muted:      "#94a3b8",
	}
	lightPalette = Palette{
		Background: "#ffffff",
		Surface:    "#f1f5f9",
		Border:     "#cbd5e1",
		Edge:       "#cbd5e1",
		Text:       "#1e293b",
		Muted:      "#475569",
	}
)

// Node colours, shared by both themes.
const (
	ColorObject    = "#2563eb"
	ColorArray     = "#16a34a"
	ColorString    = "#f97316"
	ColorNumber    = "#9333ea"
	ColorBoolean   = "#db2777"
	ColorNull      = "#4b5563"
	ColorFallback  = "#475569"
	ColorHighlight = "#facc15"

	// ColorNodeText is drawn on type-coloured fills; ColorHighlightText on
	// the highlight fill.
	ColorNodeText      = "#ffffff"
	ColorHighlightText = "#0f172a"
)

// TypeColor returns the fill colour for nodes of type typ.
func TypeColor(typ tree.Type) string {
	switch typ {
	case tree.TypeObject:
		return ColorObject
	case tree.TypeArray:
		return ColorArray
	case tree.TypeString:
		return ColorString
	case tree.TypeNumber:
		return ColorNumber
	case tree.TypeBoolean:
		return ColorBoolean
	case tree.TypeNull:
		return ColorNull
	default:
		return ColorFallback
	}
}

// NodeFill returns the fill for a node; highlighted nodes are yellow
// regardless of type.
func (Palette) NodeFill(typ tree.Type, highlighted bool) string {
	if highlighted {
		return ColorHighlight
	}
	return TypeColor(typ)
}

// NodeText returns the text colour to use on NodeFill.
func (Palette) NodeText(highlighted bool) string {
	if highlighted {
		return ColorHighlightText
	}
	return ColorNodeText
}
