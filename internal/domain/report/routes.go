package report

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns report routes mounted under /reports
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)
	r.Post("/accounts", h.ReportAccount)
	r.Get("/accounts", h.ListAccountReports)
	r.Post("/stories", h.ReportStory)
	r.Get("/stories", h.ListStoryReports)

	return r
}
