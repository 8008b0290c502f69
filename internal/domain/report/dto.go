package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/pagewise/pagewise-api/internal/domain/account"
	"github.com/pagewise/pagewise-api/internal/domain/story"
)

// CreateRequest for POST /reports/accounts and POST /reports/stories
type CreateRequest struct {
	TargetID uuid.UUID `json:"target_id" validate:"required"`
	Reason   string    `json:"reason" validate:"required,max=500"`
}

// Response is the wire form of one report. TargetAccount is set for account
// reports, TargetStory for story reports; either may be absent when the
// target has since been deleted.
type Response struct {
	ID            uuid.UUID        `json:"id"`
	TargetID      uuid.UUID        `json:"target_id"`
	TargetType    string           `json:"target_type"`
	Reason        string           `json:"reason"`
	Status        string           `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
	TargetAccount *account.Summary `json:"target_account,omitempty"`
	TargetStory   *story.Response  `json:"target_story,omitempty"`
}

func newResponse(r *Report) *Response {
	return &Response{
		ID:         r.ID,
		TargetID:   r.TargetID,
		TargetType: r.TargetType,
		Reason:     r.Reason,
		Status:     r.Status,
		CreatedAt:  r.CreatedAt,
	}
}
