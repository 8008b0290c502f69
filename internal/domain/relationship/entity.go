package relationship

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the state of a directed relationship edge (matches
// relationship_status enum). Absence of an edge means state NONE.
type Status string

const (
	StatusFollowing Status = "FOLLOWING"
	StatusBlocked   Status = "BLOCKED"
)

// Role selects which side of an edge an account occupies
type Role string

const (
	RoleActor  Role = "actor"
	RoleTarget Role = "target"
)

// Edge represents one directed relationship record (matches relationships
// table). At most one edge exists per ordered (actor, target) pair.
type Edge struct {
	ActorID   uuid.UUID `db:"actor_id"`
	TargetID  uuid.UUID `db:"target_id"`
	Status    Status    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// IsBlocked returns true if the edge records a block
func (e *Edge) IsBlocked() bool {
	return e.Status == StatusBlocked
}
