package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/jsontree/pkg/buildinfo"
)

func (s *Server) registerRoutes(r chi.Router) {
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, buildinfo.Get())
	})

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", s.createSession)

		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", s.deleteSession)
			r.Put("/document", s.putDocument)
			r.Delete("/document", s.resetDocument)
			r.Get("/view", s.getView)
			r.Get("/resolve", s.resolvePath)

			r.Post("/nodes/{nodeID}/toggle", s.toggleNode)
			r.Post("/expand", s.expandAll)
			r.Post("/collapse", s.collapseAll)

			r.Post("/search", s.search)
			r.Delete("/search", s.clearSearch)
			r.Get("/suggest", s.suggest)

			r.Post("/zoom/{action}", s.zoom)
			r.Post("/theme/toggle", s.toggleTheme)

			r.Get("/export/{format}", s.export)
		})
	})
}
