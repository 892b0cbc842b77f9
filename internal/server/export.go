package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/jsontree/pkg/pipeline"
	"github.com/matzehuels/jsontree/pkg/tree"
)

// export renders the session's current view as a download. Options are taken
// under the session lock; rendering runs outside it on the immutable tree.
//
// Query parameters: engine (png only) and values=1 for node-link labels.
func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}

	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var (
		t    *tree.Tree
		opts pipeline.Options
	)
	err = sess.Do(func() error {
		if err := sess.RequireTree(); err != nil {
			return err
		}
		t = sess.Tree
		opts = pipeline.FromView(sess.View, sess.Source, sess.Theme, format)
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	opts.Engine = q.Get("engine")
	opts.Values, _ = strconv.ParseBool(q.Get("values"))
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, err)
		return
	}

	data, err := s.runner.Export(r.Context(), t, format, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", pipeline.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", pipeline.Filename(format)))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
