package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	jterrors "github.com/matzehuels/jsontree/pkg/errors"
	"github.com/matzehuels/jsontree/pkg/render"
	"github.com/matzehuels/jsontree/pkg/view"
)

func TestNew(t *testing.T) {
	s := New()
	if _, err := uuid.Parse(s.ID); err != nil {
		t.Errorf("ID %q is not a uuid: %v", s.ID, err)
	}
	if s.Theme != render.ThemeDark {
		t.Errorf("theme = %q, want dark", s.Theme)
	}
	if s.HasTree() {
		t.Error("new session should have no tree")
	}
	if New().ID == s.ID {
		t.Error("session ids should be unique")
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
		check   func(t *testing.T, s *Session)
	}{
		{
			name:  "Sample",
			input: SampleJSON,
			check: func(t *testing.T, s *Session) {
				if s.Tree.NodeCount() != 13 {
					t.Errorf("nodes = %d, want 13", s.Tree.NodeCount())
				}
				if string(s.Source) != SampleJSON {
					t.Error("source should be the submitted text")
				}
				if s.View.Zoom() != 1.0 || len(s.View.ExpandedIDs()) != 13 {
					t.Error("view should be freshly seeded")
				}
			},
		},
		{
			name:    "Malformed",
			input:   `{"a": }`,
			wantErr: "invalid character '}' looking for beginning of value",
			check: func(t *testing.T, s *Session) {
				if s.Tree != nil || s.View != nil || s.Source != nil {
					t.Error("failed load should clear tree, view and source")
				}
				if s.Input != `{"a": }` {
					t.Errorf("input = %q, want attempted text", s.Input)
				}
			},
		},
		{
			name:    "Empty",
			input:   "",
			wantErr: "unexpected end of JSON input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			if err := s.Load(context.Background(), `[1]`); err != nil {
				t.Fatalf("initial load: %v", err)
			}

			err := s.Load(context.Background(), tt.input)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Load: %v", err)
				}
			} else {
				if !jterrors.Is(err, jterrors.ErrCodeInvalidJSON) {
					t.Fatalf("err = %v, want INVALID_JSON", err)
				}
				if got := jterrors.UserMessage(err); got != tt.wantErr {
					t.Errorf("message = %q, want %q", got, tt.wantErr)
				}
				if s.Err != tt.wantErr {
					t.Errorf("Err = %q, want %q", s.Err, tt.wantErr)
				}
			}
			if tt.check != nil {
				tt.check(t, s)
			}
		})
	}
}

func TestLoadReseedsView(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.LoadSample(ctx); err != nil {
		t.Fatal(err)
	}
	s.View.Toggle("node-1")
	s.View.Search("o", view.ModeLiteral)
	s.View.ZoomIn()

	if err := s.LoadSample(ctx); err != nil {
		t.Fatal(err)
	}
	if !s.View.IsExpanded("node-1") || len(s.View.HighlightedIDs()) != 0 || s.View.Zoom() != 1.0 {
		t.Error("reload should reset the view")
	}
}

func TestReset(t *testing.T) {
	s := New()
	_ = s.LoadSample(context.Background())
	s.ToggleTheme()
	s.Reset()

	if s.Input != "" || s.Source != nil || s.Tree != nil || s.View != nil {
		t.Error("Reset should clear document state")
	}
	if s.Theme != render.ThemeLight {
		t.Error("Reset should keep the theme")
	}
	if err := s.RequireTree(); !errors.Is(err, ErrNoDocument) || !jterrors.Is(err, jterrors.ErrCodeEmptyTree) {
		t.Errorf("RequireTree = %v, want ErrNoDocument/EMPTY_TREE", err)
	}
}

func TestToggleTheme(t *testing.T) {
	s := New()
	if s.ToggleTheme() != render.ThemeLight || s.ToggleTheme() != render.ThemeDark {
		t.Error("ToggleTheme should alternate dark and light")
	}
}

func TestDoSerializes(t *testing.T) {
	s := New()
	_ = s.LoadSample(context.Background())

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Do(func() error {
				s.View.Toggle("node-1")
				s.View.Search("o", view.ModeLiteral)
				return nil
			})
		}()
	}
	wg.Wait()

	// even number of toggles
	if !s.View.IsExpanded("node-1") {
		t.Error("node-1 should be expanded after 50 toggles")
	}
	want := errors.New("boom")
	if err := s.Do(func() error { return want }); err != want {
		t.Errorf("Do should return fn's error, got %v", err)
	}
}
