package story

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns story routes mounted under /stories
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler, optionalAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(optionalAuth)
		r.Get("/", h.ListFeed)
		r.Get("/{id}", h.Get)
	})

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})

	return r
}
