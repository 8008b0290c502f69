package folder

import (
	"time"

	"github.com/google/uuid"
)

// Folder groups an owner's stories into a named shelf (matches folders table).
// Folder names are unique per owner.
type Folder struct {
	ID          uuid.UUID `db:"id"`
	OwnerID     uuid.UUID `db:"owner_id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	ImageURL    string    `db:"image_url"`
	IsPublic    bool      `db:"is_public"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// VisibleTo reports whether the folder can be browsed by the given account
func (f *Folder) VisibleTo(accountID uuid.UUID) bool {
	return f.IsPublic || f.OwnerID == accountID
}
