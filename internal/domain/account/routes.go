package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns account routes mounted under /users
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/search", h.Search)
		r.Patch("/me", h.UpdateProfile)
		r.Post("/me/avatar", h.UploadAvatar)
		r.Delete("/me", h.Destroy)
	})

	r.Get("/{id}", h.GetProfile)

	return r
}
