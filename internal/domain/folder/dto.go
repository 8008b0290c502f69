package folder

import (
	"time"

	"github.com/google/uuid"

	"github.com/pagewise/pagewise-api/internal/domain/account"
	"github.com/pagewise/pagewise-api/internal/domain/story"
)

// CreateRequest for POST /folders
type CreateRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
	IsPublic    *bool  `json:"is_public"`
}

// UpdateRequest for PUT /folders/{id}
type UpdateRequest struct {
	Name        string  `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	IsPublic    *bool   `json:"is_public"`
}

// Response is the wire form of one folder
type Response struct {
	ID          uuid.UUID        `json:"id"`
	Owner       *account.Summary `json:"owner"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	ImageURL    string           `json:"image_url"`
	IsPublic    bool             `json:"is_public"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// ListResponse is one page of folders
type ListResponse struct {
	Items      []*Response `json:"items"`
	Page       int         `json:"page"`
	TotalPages int         `json:"total_pages"`
	PageSize   int         `json:"page_size"`
	TotalItems int         `json:"total_items"`
}

// StoriesResponse is one page of a folder's stories
type StoriesResponse struct {
	Items      []*story.Response `json:"items"`
	Page       int               `json:"page"`
	TotalPages int               `json:"total_pages"`
	PageSize   int               `json:"page_size"`
	TotalItems int               `json:"total_items"`
}

func newResponse(f *Folder, owner *account.Summary) *Response {
	return &Response{
		ID:          f.ID,
		Owner:       owner,
		Name:        f.Name,
		Description: f.Description,
		ImageURL:    f.ImageURL,
		IsPublic:    f.IsPublic,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}
