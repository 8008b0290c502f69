package story

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Story represents a reader's book story (matches stories table)
type Story struct {
	ID         uuid.UUID      `db:"id"`
	AuthorID   uuid.UUID      `db:"author_id"`
	BookTitle  string         `db:"book_title"`
	BookAuthor string         `db:"book_author"`
	Quote      string         `db:"quote"`
	Content    string         `db:"content"`
	ImageURLs  pq.StringArray `db:"image_urls"`
	Keywords   pq.StringArray `db:"keywords"`
	IsPublic   bool           `db:"is_public"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

// VisibleTo reports whether the story can be read by the given account
func (s *Story) VisibleTo(accountID uuid.UUID) bool {
	return s.IsPublic || s.AuthorID == accountID
}
