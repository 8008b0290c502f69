package story

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/pagewise/pagewise-api/internal/middleware"
	"github.com/pagewise/pagewise-api/internal/pkg/errorhandler"
	"github.com/pagewise/pagewise-api/internal/pkg/pagination"
	"github.com/pagewise/pagewise-api/internal/pkg/response"
)

// Handler handles story HTTP requests
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates story handler
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// Create handles POST /stories
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
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

	story, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "STORY_CREATE_FAILED", "Failed to create story", err)
		return
	}

	response.Created(w, story)
}

// Get handles GET /stories/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid story ID")
		return
	}

	story, err := h.service.Get(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		if errors.Is(err, ErrStoryNotFound) {
			response.NotFound(w, "Story not found")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "STORY_FETCH_FAILED", "Failed to fetch story", err)
		return
	}

	response.OK(w, story)
}

// Update handles PUT /stories/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid story ID")
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	story, err := h.service.Update(r.Context(), userID, id, &req)
	if err != nil {
		h.writeError(w, r, err, "STORY_UPDATE_FAILED", "Failed to update story")
		return
	}

	response.OK(w, story)
}

// Delete handles DELETE /stories/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid story ID")
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		h.writeError(w, r, err, "STORY_DELETE_FAILED", "Failed to delete story")
		return
	}

	response.NoContent(w)
}

// ListFeed handles GET /stories
func (h *Handler) ListFeed(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.ListPublic(r.Context(), pagination.FromQuery(r.URL.Query()))
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "STORY_FEED_FAILED", "Failed to fetch stories", err)
		return
	}

	response.OK(w, page)
}

// ListByUser handles GET /users/{id}/stories
func (h *Handler) ListByUser(w http.ResponseWriter, r *http.Request) {
	authorID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	page, err := h.service.ListByAuthor(r.Context(), middleware.GetUserID(r.Context()), authorID, pagination.FromQuery(r.URL.Query()))
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "STORY_LIST_FAILED", "Failed to fetch stories", err)
		return
	}

	response.OK(w, page)
}

// CountByUser handles GET /users/{id}/story-count
func (h *Handler) CountByUser(w http.ResponseWriter, r *http.Request) {
	authorID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	count, err := h.service.Count(r.Context(), authorID)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "STORY_COUNT_FAILED", "Failed to count stories", err)
		return
	}

	response.OK(w, map[string]int{"count": count})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	switch {
	case errors.Is(err, ErrStoryNotFound):
		response.NotFound(w, "Story not found")
	case errors.Is(err, ErrNotOwner):
		response.Forbidden(w, "You do not own this story")
	default:
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, code, message, err)
	}
}
