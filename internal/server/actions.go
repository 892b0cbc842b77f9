package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	jterrors "github.com/matzehuels/jsontree/pkg/errors"
	"github.com/matzehuels/jsontree/pkg/render"
	"github.com/matzehuels/jsontree/pkg/session"
	"github.com/matzehuels/jsontree/pkg/view"
)

// viewFor returns the session's view or EMPTY_TREE.
func viewFor(sess *session.Session) (*view.State, error) {
	if err := sess.RequireTree(); err != nil {
		return nil, err
	}
	return sess.View, nil
}

func (s *Server) toggleNode(w http.ResponseWriter, r *http.Request) {
	type toggleResponse struct {
		ID       string `json:"id"`
		Expanded bool   `json:"expanded"`
	}

	nodeID := chi.URLParam(r, "nodeID")
	if err := jterrors.ValidateNodeID(nodeID); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.withSession(w, r, func(sess *session.Session) (any, error) {
		v, err := viewFor(sess)
		if err != nil {
			return nil, err
		}
		if _, ok := sess.Tree.Node(nodeID); !ok {
			return nil, jterrors.New(jterrors.ErrCodeNodeNotFound, "node %s not found", nodeID)
		}
		return toggleResponse{ID: nodeID, Expanded: v.Toggle(nodeID)}, nil
	})
}

func (s *Server) expandAll(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session.Session) (any, error) {
		v, err := viewFor(sess)
		if err != nil {
			return nil, err
		}
		v.ExpandAll()
		return viewOf(sess), nil
	})
}

func (s *Server) collapseAll(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session.Session) (any, error) {
		v, err := viewFor(sess)
		if err != nil {
			return nil, err
		}
		v.CollapseAll()
		return viewOf(sess), nil
	})
}

type searchResponse struct {
	view.SearchResult
	Query   string    `json:"query"`
	Mode    view.Mode `json:"mode"`
	Message string    `json:"message"`
}

// search highlights the nodes matching the query. An invalid pattern is a
// normal outcome, not a request error.
func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	type searchRequest struct {
		Query string `json:"query"`
		Mode  string `json:"mode"`
	}

	var req searchRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := jterrors.ValidateQuery(req.Query); err != nil {
		s.writeError(w, r, err)
		return
	}
	mode := s.mode
	if req.Mode != "" {
		m, err := view.ParseMode(req.Mode)
		if err != nil {
			s.writeError(w, r, jterrors.Wrap(jterrors.ErrCodeInvalidInput, err, "search mode"))
			return
		}
		mode = m
	}

	s.withSession(w, r, func(sess *session.Session) (any, error) {
		v, err := viewFor(sess)
		if err != nil {
			return nil, err
		}
		res := v.Search(req.Query, mode)
		return searchResponse{SearchResult: res, Query: req.Query, Mode: mode, Message: res.Message()}, nil
	})
}

func (s *Server) clearSearch(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session.Session) (any, error) {
		v, err := viewFor(sess)
		if err != nil {
			return nil, err
		}
		v.ClearSearch()
		return viewOf(sess), nil
	})
}

func (s *Server) suggest(w http.ResponseWriter, r *http.Request) {
	type suggestResponse struct {
		Suggestions []string `json:"suggestions"`
	}

	q := r.URL.Query().Get("q")
	if err := jterrors.ValidateQuery(q); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.withSession(w, r, func(sess *session.Session) (any, error) {
		resp := suggestResponse{Suggestions: []string{}}
		if sess.View != nil {
			resp.Suggestions = append(resp.Suggestions, sess.View.Suggest(q)...)
		}
		return resp, nil
	})
}

func (s *Server) zoom(w http.ResponseWriter, r *http.Request) {
	type zoomResponse struct {
		Zoom float64 `json:"zoom"`
	}

	action := chi.URLParam(r, "action")
	s.withSession(w, r, func(sess *session.Session) (any, error) {
		v, err := viewFor(sess)
		if err != nil {
			return nil, err
		}
		switch action {
		case "in":
			return zoomResponse{Zoom: v.ZoomIn()}, nil
		case "out":
			return zoomResponse{Zoom: v.ZoomOut()}, nil
		case "reset":
			return zoomResponse{Zoom: v.ResetZoom()}, nil
		default:
			return nil, jterrors.New(jterrors.ErrCodeInvalidInput, "unknown zoom action %q (want in, out or reset)", action)
		}
	})
}

// toggleTheme works with or without a document.
func (s *Server) toggleTheme(w http.ResponseWriter, r *http.Request) {
	type themeResponse struct {
		Theme render.Theme `json:"theme"`
	}

	s.withSession(w, r, func(sess *session.Session) (any, error) {
		return themeResponse{Theme: sess.ToggleTheme()}, nil
	})
}
