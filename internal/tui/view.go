package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/jsontree/pkg/render"
	"github.com/matzehuels/jsontree/pkg/tree"
	"github.com/matzehuels/jsontree/pkg/view"
)

// baseIndent is the indent per depth level at zoom 1.0.
const baseIndent = 4

// styles is the lipgloss rendition of a theme palette.
type styles struct {
	title     lipgloss.Style
	text      lipgloss.Style
	muted     lipgloss.Style
	cursor    lipgloss.Style
	highlight lipgloss.Style
	errText   lipgloss.Style
	status    lipgloss.Style
}

func newStyles(theme render.Theme) styles {
	p := theme.Palette()
	return styles{
		title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(render.ColorObject)),
		text:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.Text)),
		muted:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted)),
		cursor: lipgloss.NewStyle().Bold(true).Background(lipgloss.Color(p.Surface)),
		highlight: lipgloss.NewStyle().
			Foreground(lipgloss.Color(render.ColorHighlightText)).
			Background(lipgloss.Color(render.ColorHighlight)),
		errText: lipgloss.NewStyle().Foreground(lipgloss.Color(render.ColorBoolean)),
		status:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted)).Italic(true),
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	st := newStyles(m.sess.Theme)

	var b strings.Builder
	b.WriteString(st.title.Render("JSON Tree"))
	b.WriteString("\n\n")

	v := m.sess.View
	if v == nil || v.Tree().IsEmpty() {
		b.WriteString(m.emptyState(st))
	} else {
		b.WriteString(m.renderRows(st, v))
	}

	b.WriteString("\n")
	if m.searching {
		b.WriteString(m.input.View())
		b.WriteString("\n")
		for _, s := range m.suggestions {
			b.WriteString(st.muted.Render("  " + s))
			b.WriteString("\n")
		}
	}
	b.WriteString(m.statusLine(st))
	b.WriteString("\n")
	b.WriteString(st.muted.Render(m.helpLine()))
	return b.String()
}

func (m Model) emptyState(st styles) string {
	if m.sess.Err != "" {
		return st.errText.Render("Invalid JSON: "+m.sess.Err) + "\n"
	}
	return st.muted.Render("No document loaded. Press ctrl+l for the sample.") + "\n"
}

func (m Model) renderRows(st styles, v *view.State) string {
	rows := v.Visible()
	indent := int(math.Round(baseIndent * v.Zoom()))

	end := min(m.offset+m.height, len(rows))
	var b strings.Builder
	for i := m.offset; i < end; i++ {
		b.WriteString(renderRow(st, rows[i], indent, i == m.cursor))
		b.WriteString("\n")
	}
	if len(rows) > m.height {
		b.WriteString(st.muted.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(rows))))
		b.WriteString("\n")
	}
	return b.String()
}

// renderRow draws one node: indent, fold marker, key or index, label.
func renderRow(st styles, row view.Row, indent int, selected bool) string {
	marker := "  "
	if row.HasChildren {
		marker = "▸ "
		if row.Expanded {
			marker = "▾ "
		}
	}

	n := row.Node
	label := lipgloss.NewStyle().Foreground(lipgloss.Color(render.TypeColor(n.Type))).Render(n.Label)
	name := st.text.Render(rowName(n))
	if row.Highlighted {
		label = st.highlight.Render(n.Label)
		name = st.highlight.Render(rowName(n))
	}

	var value string
	if !n.Type.IsContainer() && n.DisplayValue() != n.Label {
		value = " " + st.muted.Render(n.DisplayValue())
	}

	line := strings.Repeat(" ", row.Depth*indent) + marker + name + " " + label + value
	if selected {
		return st.cursor.Render("›") + line
	}
	return " " + line
}

// rowName is the last segment of a node's path, or "$" for the root.
func rowName(n *tree.Node) string {
	segs, err := tree.ParsePath(n.Path)
	if err != nil {
		return n.Path
	}
	if len(segs) == 0 {
		return tree.RootPath
	}
	s := segs[len(segs)-1]
	if s.IsIndex {
		return s.String()
	}
	return s.Key + ":"
}

func (m Model) statusLine(st styles) string {
	parts := []string{}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	zoom := 100
	if v := m.sess.View; v != nil {
		zoom = zoomPercent(v.Zoom())
		parts = append(parts, fmt.Sprintf("%d nodes", v.Tree().NodeCount()))
	}
	parts = append(parts,
		fmt.Sprintf("zoom %d%%", zoom),
		string(m.sess.Theme),
		string(m.mode),
	)
	return st.status.Render(strings.Join(parts, " · "))
}

func (m Model) helpLine() string {
	var parts []string
	for _, k := range m.keys.shortHelp() {
		h := k.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, "  ")
}
