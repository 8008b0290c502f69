package story

import (
	"time"

	"github.com/google/uuid"
)

// CreateRequest for POST /stories
type CreateRequest struct {
	BookTitle  string   `json:"book_title" validate:"required,min=1,max=300"`
	BookAuthor string   `json:"book_author" validate:"omitempty,max=200"`
	Quote      string   `json:"quote" validate:"required,max=1000"`
	Content    string   `json:"content" validate:"required,max=10000"`
	ImageURLs  []string `json:"image_urls" validate:"omitempty,max=10,dive,url"`
	Keywords   []string `json:"keywords" validate:"omitempty,max=20,dive,max=50"`
	IsPublic   *bool    `json:"is_public"`
}

// UpdateRequest for PUT /stories/{id}
type UpdateRequest struct {
	BookTitle  string   `json:"book_title" validate:"omitempty,min=1,max=300"`
	BookAuthor string   `json:"book_author" validate:"omitempty,max=200"`
	Quote      string   `json:"quote" validate:"omitempty,max=1000"`
	Content    string   `json:"content" validate:"omitempty,max=10000"`
	ImageURLs  []string `json:"image_urls" validate:"omitempty,max=10,dive,url"`
	Keywords   []string `json:"keywords" validate:"omitempty,max=20,dive,max=50"`
	IsPublic   *bool    `json:"is_public"`
}

// Response is the wire form of one story
type Response struct {
	ID         uuid.UUID `json:"id"`
	AuthorID   uuid.UUID `json:"author_id"`
	BookTitle  string    `json:"book_title"`
	BookAuthor string    `json:"book_author"`
	Quote      string    `json:"quote"`
	Content    string    `json:"content"`
	ImageURLs  []string  `json:"image_urls"`
	Keywords   []string  `json:"keywords"`
	IsPublic   bool      `json:"is_public"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ListResponse is one page of stories
type ListResponse struct {
	Items      []*Response `json:"items"`
	Page       int         `json:"page"`
	TotalPages int         `json:"total_pages"`
	PageSize   int         `json:"page_size"`
	TotalItems int         `json:"total_items"`
}

// NewResponse converts a story into its wire form
func NewResponse(s *Story) *Response {
	images := []string(s.ImageURLs)
	if images == nil {
		images = []string{}
	}
	keywords := []string(s.Keywords)
	if keywords == nil {
		keywords = []string{}
	}

	return &Response{
		ID:         s.ID,
		AuthorID:   s.AuthorID,
		BookTitle:  s.BookTitle,
		BookAuthor: s.BookAuthor,
		Quote:      s.Quote,
		Content:    s.Content,
		ImageURLs:  images,
		Keywords:   keywords,
		IsPublic:   s.IsPublic,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}
