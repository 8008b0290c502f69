package folder

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
	"github.com/pagewise/pagewise-api/internal/pkg/pagination"
	"github.com/pagewise/pagewise-api/internal/pkg/response"
)

// Handler handles folder HTTP requests
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates folder handler
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// Create handles POST /folders
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

	folder, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		h.writeError(w, r, err, "FOLDER_CREATE_FAILED", "Failed to create folder")
		return
	}

	response.Created(w, folder)
}

// Update handles PUT /folders/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid folder ID")
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

	folder, err := h.service.Update(r.Context(), userID, id, &req)
	if err != nil {
		h.writeError(w, r, err, "FOLDER_UPDATE_FAILED", "Failed to update folder")
		return
	}

	response.OK(w, folder)
}

// UploadImage handles POST /folders/{id}/image (multipart form, field "image")
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid folder ID")
		return
	}

	if err := r.ParseMultipartForm(imaging.MaxFileSize); err != nil {
		response.BadRequest(w, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.BadRequest(w, "Missing image file")
		return
	}
	defer file.Close()

	if !imaging.ValidateSize(header.Size, imaging.MaxFileSize) {
		response.BadRequest(w, "Image file too large")
		return
	}

	folder, err := h.service.UploadImage(r.Context(), userID, id, file, header.Filename)
	if err != nil {
		h.writeError(w, r, err, "FOLDER_IMAGE_UPLOAD_FAILED", "Failed to upload folder image")
		return
	}

	response.OK(w, folder)
}

// Delete handles DELETE /folders/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid folder ID")
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		h.writeError(w, r, err, "FOLDER_DELETE_FAILED", "Failed to delete folder")
		return
	}

	response.NoContent(w)
}

// ListPublic handles GET /folders
func (h *Handler) ListPublic(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.ListPublic(r.Context(), pagination.FromQuery(r.URL.Query()))
	if err != nil {
		h.writeError(w, r, err, "FOLDER_LIST_FAILED", "Failed to fetch folders")
		return
	}

	response.OK(w, page)
}

// ListByOwner handles GET /folders/user/{userId}
func (h *Handler) ListByOwner(w http.ResponseWriter, r *http.Request) {
	ownerID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	page, err := h.service.ListByOwner(r.Context(), middleware.GetUserID(r.Context()), ownerID, pagination.FromQuery(r.URL.Query()))
	if err != nil {
		h.writeError(w, r, err, "FOLDER_LIST_FAILED", "Failed to fetch folders")
		return
	}

	response.OK(w, page)
}

// ListStories handles GET /folders/{id}/stories
func (h *Handler) ListStories(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid folder ID")
		return
	}

	page, err := h.service.ListStories(r.Context(), middleware.GetUserID(r.Context()), id, pagination.FromQuery(r.URL.Query()))
	if err != nil {
		h.writeError(w, r, err, "FOLDER_STORIES_FAILED", "Failed to fetch folder stories")
		return
	}

	response.OK(w, page)
}

// AddStory handles POST /folders/{id}/stories/{storyId}
func (h *Handler) AddStory(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid folder ID")
		return
	}
	storyID, err := uuid.Parse(chi.URLParam(r, "storyId"))
	if err != nil {
		response.BadRequest(w, "Invalid story ID")
		return
	}

	if err := h.service.AddStory(r.Context(), userID, id, storyID); err != nil {
		h.writeError(w, r, err, "FOLDER_ADD_STORY_FAILED", "Failed to add story to folder")
		return
	}

	response.NoContent(w)
}

// RemoveStory handles DELETE /folders/{id}/stories/{storyId}
func (h *Handler) RemoveStory(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid folder ID")
		return
	}
	storyID, err := uuid.Parse(chi.URLParam(r, "storyId"))
	if err != nil {
		response.BadRequest(w, "Invalid story ID")
		return
	}

	if err := h.service.RemoveStory(r.Context(), userID, id, storyID); err != nil {
		h.writeError(w, r, err, "FOLDER_REMOVE_STORY_FAILED", "Failed to remove story from folder")
		return
	}

	response.NoContent(w)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	switch {
	case errors.Is(err, ErrFolderNotFound):
		response.NotFound(w, "Folder not found")
	case errors.Is(err, ErrStoryNotFound):
		response.NotFound(w, "Story not found")
	case errors.Is(err, ErrStoryNotInFolder):
		response.NotFound(w, "Story is not in this folder")
	case errors.Is(err, ErrFolderExists):
		response.Conflict(w, "Folder already exists")
	case errors.Is(err, ErrNotOwner):
		response.Forbidden(w, "You do not own this folder")
	default:
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, code, message, err)
	}
}
