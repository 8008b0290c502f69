package comment

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/pagewise/pagewise-api/internal/middleware"
	"github.com/pagewise/pagewise-api/internal/pkg/errorhandler"
	"github.com/pagewise/pagewise-api/internal/pkg/pagination"
	"github.com/pagewise/pagewise-api/internal/pkg/response"
)

// Handler handles comment HTTP requests
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates comment handler
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// Create handles POST /comments
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

	comment, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		h.writeError(w, r, err, "COMMENT_CREATE_FAILED", "Failed to create comment")
		return
	}

	response.Created(w, comment)
}

// ListByStory handles GET /comments/story/{storyId}
func (h *Handler) ListByStory(w http.ResponseWriter, r *http.Request) {
	storyID, err := uuid.Parse(chi.URLParam(r, "storyId"))
	if err != nil {
		response.BadRequest(w, "Invalid story ID")
		return
	}

	replyLimit, _ := strconv.Atoi(r.URL.Query().Get("replyPageSize"))

	page, err := h.service.ListByStory(r.Context(), middleware.GetUserID(r.Context()), storyID, pagination.FromQuery(r.URL.Query()), replyLimit)
	if err != nil {
		h.writeError(w, r, err, "COMMENT_LIST_FAILED", "Failed to fetch comments")
		return
	}

	response.OK(w, page)
}

// CountByStory handles GET /comments/story/{storyId}/count
func (h *Handler) CountByStory(w http.ResponseWriter, r *http.Request) {
	storyID, err := uuid.Parse(chi.URLParam(r, "storyId"))
	if err != nil {
		response.BadRequest(w, "Invalid story ID")
		return
	}

	count, err := h.service.CountByStory(r.Context(), storyID)
	if err != nil {
		h.writeError(w, r, err, "COMMENT_COUNT_FAILED", "Failed to count comments")
		return
	}

	response.OK(w, CountResponse{Count: count})
}

// Delete handles DELETE /comments/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid comment ID")
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		h.writeError(w, r, err, "COMMENT_DELETE_FAILED", "Failed to delete comment")
		return
	}

	response.NoContent(w)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	switch {
	case errors.Is(err, ErrStoryNotFound):
		response.NotFound(w, "Story not found")
	case errors.Is(err, ErrCommentNotFound):
		response.NotFound(w, "Comment not found")
	case errors.Is(err, ErrParentNotFound):
		response.NotFound(w, "Parent comment not found")
	case errors.Is(err, ErrNestedReply):
		response.BadRequest(w, "Replies to replies are not allowed")
	case errors.Is(err, ErrParentMismatch):
		response.BadRequest(w, "Parent comment belongs to a different story")
	case errors.Is(err, ErrNotAuthor):
		response.Forbidden(w, "You do not own this comment")
	default:
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, code, message, err)
	}
}
