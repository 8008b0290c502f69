package relationship

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

// Handler handles relationship HTTP requests
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates relationship handler
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// Follow handles POST /follows/{userId}
func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	actorID, targetID, ok := h.pair(w, r)
	if !ok {
		return
	}

	snapshot, err := h.service.Follow(r.Context(), actorID, targetID)
	if err != nil {
		h.writeError(w, r, err, "FOLLOW_FAILED", "Failed to process follow")
		return
	}

	response.Created(w, snapshot)
}

// Unfollow handles DELETE /follows/{userId}
func (h *Handler) Unfollow(w http.ResponseWriter, r *http.Request) {
	actorID, targetID, ok := h.pair(w, r)
	if !ok {
		return
	}

	snapshot, err := h.service.Unfollow(r.Context(), actorID, targetID)
	if err != nil {
		h.writeError(w, r, err, "UNFOLLOW_FAILED", "Failed to process unfollow")
		return
	}

	response.OK(w, snapshot)
}

// UpdateStatus handles PATCH /follows/{userId}/status. Status BLOCKED blocks
// the target; status FOLLOWING removes an existing block.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actorID, targetID, ok := h.pair(w, r)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, "Invalid status")
		return
	}

	snapshot, err := h.service.SetBlocked(r.Context(), actorID, targetID, req.Status == string(StatusBlocked))
	if err != nil {
		h.writeError(w, r, err, "STATUS_UPDATE_FAILED", "Failed to update follow status")
		return
	}

	response.OK(w, snapshot)
}

// CheckStatus handles GET /follows/{userId}/status
func (h *Handler) CheckStatus(w http.ResponseWriter, r *http.Request) {
	actorID, targetID, ok := h.pair(w, r)
	if !ok {
		return
	}

	status, err := h.service.CheckStatus(r.Context(), actorID, targetID)
	if err != nil {
		h.writeError(w, r, err, "STATUS_CHECK_FAILED", "Failed to check follow status")
		return
	}

	response.OK(w, status)
}

// ListBlocked handles GET /follows/blocked
func (h *Handler) ListBlocked(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())
	if actorID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	blocked, err := h.service.ListBlocked(r.Context(), actorID)
	if err != nil {
		h.writeError(w, r, err, "BLOCKED_LIST_FAILED", "Failed to fetch blocked list")
		return
	}

	response.OK(w, blocked)
}

// ListFollowers handles GET /users/{id}/followers
func (h *Handler) ListFollowers(w http.ResponseWriter, r *http.Request) {
	accountID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	page, err := h.service.ListFollowers(r.Context(), accountID, pagination.FromQuery(r.URL.Query()))
	if err != nil {
		h.writeError(w, r, err, "FOLLOWERS_LIST_FAILED", "Failed to fetch followers")
		return
	}

	response.OK(w, page)
}

// ListFollowing handles GET /users/{id}/following
func (h *Handler) ListFollowing(w http.ResponseWriter, r *http.Request) {
	accountID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	page, err := h.service.ListFollowing(r.Context(), accountID, pagination.FromQuery(r.URL.Query()))
	if err != nil {
		h.writeError(w, r, err, "FOLLOWING_LIST_FAILED", "Failed to fetch following")
		return
	}

	response.OK(w, page)
}

// Counts handles GET /users/{id}/follow-counts
func (h *Handler) Counts(w http.ResponseWriter, r *http.Request) {
	accountID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	counts, err := h.service.Counts(r.Context(), accountID)
	if err != nil {
		h.writeError(w, r, err, "FOLLOW_COUNTS_FAILED", "Failed to fetch follow counts")
		return
	}

	response.OK(w, counts)
}

// pair extracts the authenticated actor and the target from the request
func (h *Handler) pair(w http.ResponseWriter, r *http.Request) (actorID, targetID uuid.UUID, ok bool) {
	actorID = middleware.GetUserID(r.Context())
	if actorID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return uuid.Nil, uuid.Nil, false
	}

	targetID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return uuid.Nil, uuid.Nil, false
	}

	return actorID, targetID, true
}

// writeError maps domain errors onto the four error kinds the API exposes
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	switch {
	case errors.Is(err, ErrSelfRelation):
		response.BadRequest(w, ErrSelfRelation.Error())
	case errors.Is(err, ErrAccountNotFound):
		response.NotFound(w, ErrAccountNotFound.Error())
	case errors.Is(err, ErrFollowNotFound):
		response.NotFound(w, "Follow record not found or already unfollowed")
	case errors.Is(err, ErrBlockNotFound):
		response.NotFound(w, "Block record not found or already unblocked")
	case errors.Is(err, ErrAlreadyFollowing):
		response.Conflict(w, "You are already following this user")
	case errors.Is(err, ErrEdgeConflict):
		response.Conflict(w, ErrEdgeConflict.Error())
	default:
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, code, message, err)
	}
}
