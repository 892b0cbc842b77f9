// Package server is the HTTP API behind `jsontree serve`.
//
// Each client works on its own session: it creates one, submits document
// text, and then drives the view (toggle, search, zoom, theme) and exports
// through session-scoped routes. Sessions live in a [session.Store] and
// every handler touches a session only inside [session.Session.Do].
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/jsontree/pkg/pipeline"
	"github.com/matzehuels/jsontree/pkg/render"
	"github.com/matzehuels/jsontree/pkg/session"
	"github.com/matzehuels/jsontree/pkg/view"
)

// DefaultMaxBodyBytes caps request bodies, document uploads included.
const DefaultMaxBodyBytes = 8 << 20

const shutdownTimeout = 10 * time.Second

// Options configures a Server.
type Options struct {
	Store        session.Store
	Runner       *pipeline.Runner
	Logger       *log.Logger
	Theme        render.Theme // theme of new sessions
	Mode         view.Mode    // search mode when a request names none
	MaxBodyBytes int64
}

// Server serves the session API.
type Server struct {
	store   session.Store
	runner  *pipeline.Runner
	logger  *log.Logger
	theme   render.Theme
	mode    view.Mode
	maxBody int64
	router  chi.Router
}

// New creates a server. Unset options get an in-memory store, a runner
// without cache and the default theme.
func New(opts Options) *Server {
	s := &Server{
		store:   opts.Store,
		runner:  opts.Runner,
		logger:  opts.Logger,
		theme:   opts.Theme,
		mode:    opts.Mode,
		maxBody: opts.MaxBodyBytes,
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.store == nil {
		s.store = session.NewMemoryStore(session.DefaultTTL)
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	if s.theme == "" {
		s.theme = render.DefaultTheme
	}
	if s.mode == "" {
		s.mode = view.ModeLiteral
	}
	if s.maxBody <= 0 {
		s.maxBody = DefaultMaxBodyBytes
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)
	r.Use(s.limitBody)
	s.registerRoutes(r)
	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("Shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
