package report

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/pagewise/pagewise-api/internal/middleware"
	"github.com/pagewise/pagewise-api/internal/pkg/errorhandler"
	"github.com/pagewise/pagewise-api/internal/pkg/response"
)

// Handler handles report HTTP requests
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates report handler
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// ReportAccount handles POST /reports/accounts
func (h *Handler) ReportAccount(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, h.service.ReportAccount)
}

// ReportStory handles POST /reports/stories
func (h *Handler) ReportStory(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, h.service.ReportStory)
}

// ListAccountReports handles GET /reports/accounts
func (h *Handler) ListAccountReports(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.ListAccountReports)
}

// ListStoryReports handles GET /reports/stories
func (h *Handler) ListStoryReports(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.ListStoryReports)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, file func(context.Context, uuid.UUID, *CreateRequest) (*Response, error)) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	report, err := file(r.Context(), userID, &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.Created(w, report)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, fetch func(context.Context, uuid.UUID) ([]*Response, error)) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	reports, err := fetch(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.OK(w, reports)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrTargetNotFound):
		response.NotFound(w, "Report target not found")
	case errors.Is(err, ErrAlreadyReported):
		response.Conflict(w, "You have already reported this target")
	default:
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "REPORT_FAILED", "Failed to process report", err)
	}
}
