package relationship

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns relationship routes mounted under /follows
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/blocked", h.ListBlocked)

	r.Route("/{userId}", func(r chi.Router) {
		r.Post("/", h.Follow)
		r.Delete("/", h.Unfollow)
		r.Get("/status", h.CheckStatus)
		r.Patch("/status", h.UpdateStatus)
	})

	return r
}
