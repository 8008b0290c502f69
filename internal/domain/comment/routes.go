package comment

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns comment routes mounted under /comments
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler, optionalAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(optionalAuth)
		r.Get("/story/{storyId}", h.ListByStory)
		r.Get("/story/{storyId}/count", h.CountByStory)
	})

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Create)
		r.Delete("/{id}", h.Delete)
	})

	return r
}
