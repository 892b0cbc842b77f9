package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists the bindings of the tree screen.
type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Top         key.Binding
	Bottom      key.Binding
	Toggle      key.Binding
	Search      key.Binding
	SwitchMode  key.Binding
	ClearSearch key.Binding
	ZoomIn      key.Binding
	ZoomOut     key.Binding
	ZoomReset   key.Binding
	Theme       key.Binding
	CopyPath    key.Binding
	ExpandAll   key.Binding
	CollapseAll key.Binding
	Sample      key.Binding
	Reset       key.Binding
	ExportPNG   key.Binding
	ExportJSON  key.Binding
	Quit        key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Top:         key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Toggle:      key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("⏎", "fold")),
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		SwitchMode:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "mode")),
		ClearSearch: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		ZoomIn:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:     key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
		ZoomReset:   key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset zoom")),
		Theme:       key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		CopyPath:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "path")),
		ExpandAll:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "expand all")),
		CollapseAll: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "collapse all")),
		Sample:      key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("^l", "sample")),
		Reset:       key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("^r", "clear")),
		ExportPNG:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "png")),
		ExportJSON:  key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "json")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// shortHelp is the footer line.
func (k keyMap) shortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Toggle, k.Search, k.SwitchMode, k.ZoomIn, k.ZoomOut,
		k.Theme, k.CopyPath, k.ExportPNG, k.ExportJSON, k.Quit,
	}
}
