package folder

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns folder routes mounted under /folders
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler, optionalAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(optionalAuth)
		r.Get("/", h.ListPublic)
		r.Get("/user/{userId}", h.ListByOwner)
		r.Get("/{id}/stories", h.ListStories)
	})

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Post("/{id}/image", h.UploadImage)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/stories/{storyId}", h.AddStory)
		r.Delete("/{id}/stories/{storyId}", h.RemoveStory)
	})

	return r
}
