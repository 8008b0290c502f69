package report

import (
	"time"

	"github.com/google/uuid"
)

// Target types a report can point at
const (
	TargetAccount = "account"
	TargetStory   = "story"
)

// Review states of a report
const (
	StatusPending  = "pending"
	StatusReviewed = "reviewed"
	StatusResolved = "resolved"
)

// Report records one user flagging an account or a story (matches reports
// table). A reporter can file at most one report per target.
type Report struct {
	ID         uuid.UUID `db:"id"`
	ReporterID uuid.UUID `db:"reporter_id"`
	TargetID   uuid.UUID `db:"target_id"`
	TargetType string    `db:"target_type"`
	Reason     string    `db:"reason"`
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}
