package relationship

import (
	"time"

	"github.com/google/uuid"

	"github.com/pagewise/pagewise-api/internal/domain/account"
)

// UpdateStatusRequest for PATCH /follows/{userId}/status. Status BLOCKED
// blocks the target; status FOLLOWING removes an existing block (it does not
// create a follow).
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=FOLLOWING BLOCKED"`
}

// EdgeSnapshot is the wire form of one relationship record
type EdgeSnapshot struct {
	ActorID   uuid.UUID `json:"actor_id"`
	TargetID  uuid.UUID `json:"target_id"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newEdgeSnapshot(e *Edge) *EdgeSnapshot {
	return &EdgeSnapshot{
		ActorID:   e.ActorID,
		TargetID:  e.TargetID,
		Status:    e.Status,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// StatusResponse for GET /follows/{userId}/status
type StatusResponse struct {
	Following bool `json:"following"`
	Blocked   bool `json:"blocked"`
}

// CountsResponse for GET /users/{id}/follow-counts
type CountsResponse struct {
	FollowersCount int `json:"followers_count"`
	FollowingCount int `json:"following_count"`
}

// ListResponse is one page of account summaries
type ListResponse struct {
	Items      []*account.Summary `json:"items"`
	Page       int                `json:"page"`
	TotalPages int                `json:"total_pages"`
	PageSize   int                `json:"page_size"`
	TotalItems int                `json:"total_items"`
}
