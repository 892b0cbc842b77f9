package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tidwall/gjson"

	jterrors "github.com/matzehuels/jsontree/pkg/errors"
	"github.com/matzehuels/jsontree/pkg/render"
	"github.com/matzehuels/jsontree/pkg/session"
	"github.com/matzehuels/jsontree/pkg/tree"
	"github.com/matzehuels/jsontree/pkg/view"
)

// rowResponse is one visible row of the tree.
type rowResponse struct {
	ID          string `json:"id"`
	Depth       int    `json:"depth"`
	Expanded    bool   `json:"expanded"`
	HasChildren bool   `json:"has_children"`
	Highlighted bool   `json:"highlighted"`
}

// viewResponse is the full state a client renders from.
type viewResponse struct {
	ID        string         `json:"id"`
	Input     string         `json:"input"`
	Theme     render.Theme   `json:"theme"`
	Error     string         `json:"error,omitempty"`
	HasTree   bool           `json:"has_tree"`
	View      *view.Snapshot `json:"view,omitempty"`
	Rows      []rowResponse  `json:"rows,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// viewOf must be called inside sess.Do.
func viewOf(sess *session.Session) viewResponse {
	resp := viewResponse{
		ID:        sess.ID,
		Input:     sess.Input,
		Theme:     sess.Theme,
		Error:     sess.Err,
		HasTree:   sess.HasTree(),
		UpdatedAt: sess.UpdatedAt,
	}
	if sess.View != nil {
		snap := sess.View.Snapshot()
		resp.View = &snap
		for _, row := range sess.View.Visible() {
			resp.Rows = append(resp.Rows, rowResponse{
				ID:          row.Node.ID,
				Depth:       row.Depth,
				Expanded:    row.Expanded,
				HasChildren: row.HasChildren,
				Highlighted: row.Highlighted,
			})
		}
	}
	return resp
}

// session loads the session named in the URL.
func (s *Server) session(r *http.Request) (*session.Session, error) {
	return s.store.Get(r.Context(), chi.URLParam(r, "id"))
}

// withSession runs fn on the URL's session under its lock and writes the
// returned value, or the error.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(sess *session.Session) (any, error)) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var out any
	err = sess.Do(func() error {
		var err error
		out, err = fn(sess)
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// createSession starts a session, optionally loading a document or the
// sample right away.
func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	type createSessionRequest struct {
		Input  string `json:"input"`
		Sample bool   `json:"sample"`
		Theme  string `json:"theme"`
	}

	var req createSessionRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	sess := session.New()
	sess.Theme = s.theme
	if req.Theme != "" {
		theme, err := render.ParseTheme(req.Theme)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		sess.Theme = theme
	}

	switch {
	case req.Sample:
		_ = sess.LoadSample(r.Context())
	case req.Input != "":
		// A failed load still creates the session; the error is in the view.
		_ = sess.Load(r.Context(), req.Input)
	}

	if err := s.store.Set(r.Context(), sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Debug("created session", "id", sess.ID)

	var resp viewResponse
	_ = sess.Do(func() error {
		resp = viewOf(sess)
		return nil
	})
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// putDocument replaces the session's document with the request body. A body
// that does not parse keeps the text, clears the tree and answers 422 with
// the parser message.
func (s *Server) putDocument(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.withSession(w, r, func(sess *session.Session) (any, error) {
		if err := sess.Load(r.Context(), string(body)); err != nil {
			return nil, err
		}
		return viewOf(sess), nil
	})
}

// resetDocument clears the session's document. The theme is kept.
func (s *Server) resetDocument(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session.Session) (any, error) {
		sess.Reset()
		return viewOf(sess), nil
	})
}

func (s *Server) getView(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session.Session) (any, error) {
		return viewOf(sess), nil
	})
}

// resolvePath returns the JSON value at ?path= in the session's source.
func (s *Server) resolvePath(w http.ResponseWriter, r *http.Request) {
	type resolveResponse struct {
		Path  string          `json:"path"`
		Type  string          `json:"type"`
		Value json.RawMessage `json:"value"`
	}

	s.withSession(w, r, func(sess *session.Session) (any, error) {
		if err := sess.RequireTree(); err != nil {
			return nil, err
		}
		path := r.URL.Query().Get("path")
		if path == "" {
			return nil, jterrors.New(jterrors.ErrCodeInvalidInput, "path is required")
		}
		res, err := tree.Resolve(sess.Source, path)
		if err != nil {
			return nil, err
		}
		return resolveResponse{Path: path, Type: jsonType(res), Value: json.RawMessage(res.Raw)}, nil
	})
}

func jsonType(res gjson.Result) string {
	switch res.Type {
	case gjson.String:
		return string(tree.TypeString)
	case gjson.Number:
		return string(tree.TypeNumber)
	case gjson.True, gjson.False:
		return string(tree.TypeBoolean)
	case gjson.Null:
		return string(tree.TypeNull)
	}
	if res.IsArray() {
		return string(tree.TypeArray)
	}
	return string(tree.TypeObject)
}
