// Package session owns the lifecycle of one document being explored.
//
// A [Session] holds the text the user last submitted, the last source that
// parsed successfully, the tree built from it, the view state over that tree
// and the display theme. Every successful [Session.Load] replaces tree and
// view wholesale; a failed load clears them and keeps the attempted text so
// it can be corrected.
//
// Sessions are not persisted. The HTTP server keeps them in a [MemoryStore]
// keyed by id and expires idle ones; the CLI and TUI use a single session.
//
// # Usage
//
//	sess := session.New()
//	if err := sess.Load(ctx, input); err != nil {
//	    fmt.Println(errors.UserMessage(err)) // parser message verbatim
//	}
//	sess.Do(func() error {
//	    sess.View.Search("560018", view.ModeLiteral)
//	    return nil
//	})
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	jterrors "github.com/matzehuels/jsontree/pkg/errors"
	"github.com/matzehuels/jsontree/pkg/jsonvalue"
	"github.com/matzehuels/jsontree/pkg/observability"
	"github.com/matzehuels/jsontree/pkg/render"
	"github.com/matzehuels/jsontree/pkg/tree"
	"github.com/matzehuels/jsontree/pkg/view"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New("session expired")

	// ErrNoDocument is returned by operations that need a built tree.
	ErrNoDocument = errors.New("no document loaded")
)

// DefaultTTL is how long an idle session lives in a store.
const DefaultTTL = 2 * time.Hour

// Session is one document being explored.
//
// Fields are read and written under the session lock: callers that share a
// session between goroutines wrap access in [Session.Do].
type Session struct {
	ID        string
	Input     string // last submitted text, valid or not
	Source    []byte // last text that parsed; nil when no tree
	Tree      *tree.Tree
	View      *view.State
	Theme     render.Theme
	Err       string // parser message of the last failed load
	CreatedAt time.Time
	UpdatedAt time.Time

	mu sync.Mutex
}

// New creates an empty session with a fresh id and the default theme.
func New() *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Theme:     render.DefaultTheme,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Do runs fn with the session locked.
func (s *Session) Do(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UpdatedAt = time.Now()
	return fn()
}

// Load parses input and, on success, rebuilds tree and view from it.
//
// On failure the tree, view and validated source are cleared, Input keeps
// the attempted text, and the returned error has code INVALID_JSON with the
// parser's message as cause.
func (s *Session) Load(ctx context.Context, input string) error {
	start := time.Now()
	observability.Pipeline().OnParseStart(ctx, len(input))

	s.Input = input
	v, err := jsonvalue.ParseString(input)
	if err != nil {
		s.Source, s.Tree, s.View = nil, nil, nil
		s.Err = err.Error()
		observability.Pipeline().OnParseComplete(ctx, 0, time.Since(start), err)
		return jterrors.Wrap(jterrors.ErrCodeInvalidJSON, err, "parse document")
	}

	s.Tree = tree.Build(v)
	s.View = view.New(s.Tree)
	s.Source = []byte(input)
	s.Err = ""
	observability.Pipeline().OnParseComplete(ctx, s.Tree.NodeCount(), time.Since(start), nil)
	return nil
}

// LoadSample loads SampleJSON.
func (s *Session) LoadSample(ctx context.Context) error {
	return s.Load(ctx, SampleJSON)
}

// Reset clears input, source, tree, view and error. Theme is kept.
func (s *Session) Reset() {
	s.Input, s.Source, s.Tree, s.View, s.Err = "", nil, nil, nil, ""
}

// HasTree reports whether a document is loaded.
func (s *Session) HasTree() bool { return !s.Tree.IsEmpty() }

// RequireTree returns ErrNoDocument, tagged EMPTY_TREE, when no document
// is loaded.
func (s *Session) RequireTree() error {
	if !s.HasTree() {
		return jterrors.Wrap(jterrors.ErrCodeEmptyTree, ErrNoDocument, "nothing to export")
	}
	return nil
}

// ToggleTheme switches between dark and light and returns the new theme.
func (s *Session) ToggleTheme() render.Theme {
	s.Theme = s.Theme.Toggle()
	return s.Theme
}
