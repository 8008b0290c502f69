package comment

import (
	"time"

	"github.com/google/uuid"
)

// Comment is one comment on a story. A comment with a ParentID is a reply;
// replies cannot themselves have replies.
type Comment struct {
	ID        uuid.UUID     `db:"id"`
	StoryID   uuid.UUID     `db:"story_id"`
	AuthorID  uuid.UUID     `db:"author_id"`
	ParentID  uuid.NullUUID `db:"parent_id"`
	Content   string        `db:"content"`
	CreatedAt time.Time     `db:"created_at"`
	UpdatedAt time.Time     `db:"updated_at"`
}

// IsReply reports whether the comment is a reply to another comment
func (c *Comment) IsReply() bool {
	return c.ParentID.Valid
}
