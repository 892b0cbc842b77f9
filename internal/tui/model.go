// Package tui is the interactive terminal viewer behind `jsontree view`.
//
// The screen is a bubbletea program over one [session.Session]: a foldable
// tree of rows, a search box with path suggestions, zoom (indent width),
// theme switching and exports through the pipeline runner.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/jsontree/pkg/errors"
	"github.com/matzehuels/jsontree/pkg/pipeline"
	"github.com/matzehuels/jsontree/pkg/session"
	"github.com/matzehuels/jsontree/pkg/view"
)

// Options configures the viewer.
type Options struct {
	Session   *session.Session
	Runner    *pipeline.Runner // nil disables exports
	Mode      view.Mode        // initial search mode
	ExportDir string           // where x and J write files; "" is the working directory
	Logger    *log.Logger
}

// Model is the bubbletea model of the viewer.
type Model struct {
	ctx       context.Context
	sess      *session.Session
	runner    *pipeline.Runner
	exportDir string
	logger    *log.Logger

	keys        keyMap
	input       textinput.Model
	searching   bool
	mode        view.Mode
	suggestions []string

	cursor int
	offset int
	height int
	width  int

	status   string
	quitting bool
}

// exportedMsg reports a finished export.
type exportedMsg struct {
	format string
	path   string
	err    error
}

const (
	defaultHeight = 20
	minHeight     = 5
	chromeLines   = 6 // title, blank, status, help and search lines
)

// New creates the viewer model. A nil session gets a fresh empty one.
func New(ctx context.Context, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	sess := opts.Session
	if sess == nil {
		sess = session.New()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	mode := opts.Mode
	if mode == "" {
		mode = view.ModeLiteral
	}

	in := textinput.New()
	in.Prompt = "/ "
	in.Placeholder = "search paths, labels and values"
	in.CharLimit = errors.MaxQueryLength

	return Model{
		ctx:       ctx,
		sess:      sess,
		runner:    opts.Runner,
		exportDir: opts.ExportDir,
		logger:    logger,
		keys:      defaultKeys(),
		input:     in,
		mode:      mode,
		height:    defaultHeight,
	}
}

// Run starts the viewer on the alternate screen and blocks until it quits.
func Run(ctx context.Context, opts Options) error {
	m := New(ctx, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run viewer: %w", err)
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = max(msg.Height-chromeLines, minHeight)
		m.scrollToCursor()
		return m, nil

	case exportedMsg:
		if msg.err != nil {
			m.status = "Export failed: " + errors.UserMessage(msg.err)
			m.logger.Error("export failed", "format", msg.format, "err", msg.err)
		} else {
			m.status = "Exported " + msg.path
			m.logger.Debug("exported", "format", msg.format, "path", msg.path)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateTree(msg)
	}
	return m, nil
}

// updateTree handles keys while the tree has focus.
func (m Model) updateTree(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := m.sess.View

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Sample):
		if err := m.sess.LoadSample(m.ctx); err != nil {
			m.status = errors.UserMessage(err)
			return m, nil
		}
		m.cursor, m.offset = 0, 0
		m.status = fmt.Sprintf("Loaded sample: %d nodes", m.sess.Tree.NodeCount())
		return m, nil

	case key.Matches(msg, m.keys.Reset):
		m.sess.Reset()
		m.cursor, m.offset = 0, 0
		m.status = "Cleared"
		return m, nil

	case key.Matches(msg, m.keys.Theme):
		m.status = "Theme: " + string(m.sess.ToggleTheme())
		return m, nil

	case key.Matches(msg, m.keys.SwitchMode):
		if m.mode == view.ModeLiteral {
			m.mode = view.ModePattern
		} else {
			m.mode = view.ModeLiteral
		}
		m.status = "Search mode: " + string(m.mode)
		return m, nil
	}

	if v == nil {
		return m, nil
	}
	rows := v.Visible()

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = max(len(rows)-1, 0)
	case key.Matches(msg, m.keys.Toggle):
		if m.cursor < len(rows) && rows[m.cursor].HasChildren {
			v.Toggle(rows[m.cursor].Node.ID)
		}
	case key.Matches(msg, m.keys.ExpandAll):
		v.ExpandAll()
	case key.Matches(msg, m.keys.CollapseAll):
		v.CollapseAll()
		m.cursor = 0
	case key.Matches(msg, m.keys.ZoomIn):
		m.status = fmt.Sprintf("Zoom %d%%", zoomPercent(v.ZoomIn()))
	case key.Matches(msg, m.keys.ZoomOut):
		m.status = fmt.Sprintf("Zoom %d%%", zoomPercent(v.ZoomOut()))
	case key.Matches(msg, m.keys.ZoomReset):
		m.status = fmt.Sprintf("Zoom %d%%", zoomPercent(v.ResetZoom()))
	case key.Matches(msg, m.keys.CopyPath):
		if m.cursor < len(rows) {
			m.status = rows[m.cursor].Node.Path
		}
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.input.SetValue("")
		m.suggestions = nil
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.ClearSearch):
		v.ClearSearch()
		m.status = ""
	case key.Matches(msg, m.keys.ExportPNG):
		return m, m.export(pipeline.FormatPNG)
	case key.Matches(msg, m.keys.ExportJSON):
		return m, m.export(pipeline.FormatJSON)
	}

	m.clampCursor()
	return m, nil
}

// updateSearch handles keys while the search box has focus.
func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeSearch()
		return m, nil

	case tea.KeyTab:
		if len(m.suggestions) > 0 {
			m.input.SetValue(m.suggestions[0])
			m.input.CursorEnd()
			m.refreshSuggestions()
		}
		return m, nil

	case tea.KeyEnter:
		query := m.input.Value()
		m.closeSearch()
		m.runSearch(query)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.refreshSuggestions()
	return m, cmd
}

func (m *Model) closeSearch() {
	m.searching = false
	m.suggestions = nil
	m.input.Blur()
}

func (m *Model) refreshSuggestions() {
	if m.sess.View == nil {
		m.suggestions = nil
		return
	}
	m.suggestions = m.sess.View.Suggest(m.input.Value())
}

// runSearch highlights matches and moves the cursor to the first visible one.
func (m *Model) runSearch(query string) {
	v := m.sess.View
	if v == nil {
		m.status = "Load a document first"
		return
	}
	if err := errors.ValidateQuery(query); err != nil {
		m.status = errors.UserMessage(err)
		return
	}

	res := v.Search(query, m.mode)
	m.status = res.Message()
	for i, row := range v.Visible() {
		if row.Highlighted {
			m.cursor = i
			break
		}
	}
	m.clampCursor()
}

// export renders format from the current view and writes it to the export
// directory. The view is captured before the command runs.
func (m Model) export(format string) tea.Cmd {
	if m.runner == nil {
		return nil
	}
	if err := m.sess.RequireTree(); err != nil {
		return func() tea.Msg { return exportedMsg{format: format, err: err} }
	}

	ctx, runner, t := m.ctx, m.runner, m.sess.Tree
	opts := pipeline.FromView(m.sess.View, m.sess.Source, m.sess.Theme, format)
	path := filepath.Join(m.exportDir, pipeline.Filename(format))

	return func() tea.Msg {
		data, err := runner.Export(ctx, t, format, opts)
		if err == nil {
			err = os.WriteFile(path, data, 0o644)
		}
		return exportedMsg{format: format, path: path, err: err}
	}
}

func (m *Model) clampCursor() {
	n := 0
	if m.sess.View != nil {
		n = len(m.sess.View.Visible())
	}
	m.cursor = min(max(m.cursor, 0), max(n-1, 0))
	m.scrollToCursor()
}

func (m *Model) scrollToCursor() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

// Cursor returns the index of the selected row.
func (m Model) Cursor() int { return m.cursor }

// Status returns the status line text.
func (m Model) Status() string { return m.status }

// Mode returns the current search mode.
func (m Model) Mode() view.Mode { return m.mode }

// Searching reports whether the search box has focus.
func (m Model) Searching() bool { return m.searching }

// Suggestions returns the path suggestions for the search box.
func (m Model) Suggestions() []string { return m.suggestions }

func zoomPercent(z float64) int { return int(z*100 + 0.5) }
