package account

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/pagewise/pagewise-api/internal/middleware"
	"github.com/pagewise/pagewise-api/internal/pkg/errorhandler"
	"github.com/pagewise/pagewise-api/internal/pkg/imaging"
	"github.com/pagewise/pagewise-api/internal/pkg/response"
)

// Handler handles account HTTP requests
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates account handler
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// GetProfile handles GET /users/{id}
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "PROFILE_FETCH_FAILED", "Failed to fetch profile", err)
		return
	}

	response.OK(w, profile)
}

// UpdateProfile handles PATCH /users/me
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNicknameTaken):
			response.Conflict(w, "Nickname already taken")
		case errors.Is(err, ErrAccountNotFound):
			response.NotFound(w, "User not found")
		default:
			errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "PROFILE_UPDATE_FAILED", "Failed to update profile", err)
		}
		return
	}

	response.OK(w, profile)
}

// UploadAvatar handles POST /users/me/avatar (multipart form, field "avatar")
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	if err := r.ParseMultipartForm(imaging.MaxFileSize); err != nil {
		response.BadRequest(w, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		response.BadRequest(w, "Missing avatar file")
		return
	}
	defer file.Close()

	if !imaging.ValidateSize(header.Size, imaging.MaxFileSize) {
		response.BadRequest(w, "Avatar file too large")
		return
	}

	profile, err := h.service.UploadAvatar(r.Context(), userID, file, header.Filename)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "AVATAR_UPLOAD_FAILED", "Failed to upload avatar", err)
		return
	}

	response.OK(w, profile)
}

// Search handles GET /users/search?nickname=
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	nickname := r.URL.Query().Get("nickname")
	if nickname == "" {
		response.BadRequest(w, "No nickname provided for search")
		return
	}

	users, err := h.service.Search(r.Context(), nickname, userID)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "USER_SEARCH_FAILED", "Failed to search users", err)
		return
	}

	response.OK(w, users)
}

// Destroy handles DELETE /users/me
func (h *Handler) Destroy(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	if err := h.service.Destroy(r.Context(), userID); err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "ACCOUNT_DELETE_FAILED", "Failed to delete account", err)
		return
	}

	response.NoContent(w)
}
