package comment

import (
	"time"

	"github.com/google/uuid"

	"github.com/pagewise/pagewise-api/internal/domain/account"
)

// CreateRequest for POST /comments
type CreateRequest struct {
	StoryID  uuid.UUID  `json:"story_id" validate:"required"`
	Content  string     `json:"content" validate:"required,max=2000"`
	ParentID *uuid.UUID `json:"parent_id"`
}

// Response is the wire form of one comment
type Response struct {
	ID        uuid.UUID        `json:"id"`
	StoryID   uuid.UUID        `json:"story_id"`
	ParentID  *uuid.UUID       `json:"parent_id,omitempty"`
	Content   string           `json:"content"`
	Author    *account.Summary `json:"author"`
	CreatedAt time.Time        `json:"created_at"`
	Replies   []*Response      `json:"replies,omitempty"`
}

// ListResponse is one page of root comments with their leading replies
type ListResponse struct {
	Items      []*Response `json:"items"`
	Page       int         `json:"page"`
	TotalPages int         `json:"total_pages"`
	PageSize   int         `json:"page_size"`
	TotalItems int         `json:"total_items"`
}

// CountResponse for GET /comments/story/{storyId}/count
type CountResponse struct {
	Count int `json:"count"`
}

func newResponse(c *Comment, author *account.Summary) *Response {
	resp := &Response{
		ID:        c.ID,
		StoryID:   c.StoryID,
		Content:   c.Content,
		Author:    author,
		CreatedAt: c.CreatedAt,
	}
	if c.ParentID.Valid {
		parentID := c.ParentID.UUID
		resp.ParentID = &parentID
	}
	return resp
}
