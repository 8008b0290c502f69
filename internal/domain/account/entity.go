package account

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
)

// Account represents a reader account (matches accounts table). The
// followers/following columns are denormalized caches of active follow
// edges, maintained exclusively by the relationship coordinator.
type Account struct {
	ID           uuid.UUID      `db:"id"`
	Email        string         `db:"email"`
	PasswordHash sql.NullString `db:"password_hash"`
	Nickname     string         `db:"nickname"`
	AvatarURL    sql.NullString `db:"avatar_url"`
	StatusMsg    sql.NullString `db:"status_message"`

	// Cached neighbor IDs, ordered by insertion
	Followers []uuid.UUID `db:"-"`
	Following []uuid.UUID `db:"-"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Summary is the public projection used in listings and search results
type Summary struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Nickname  string    `json:"nickname" db:"nickname"`
	AvatarURL string    `json:"avatar_url" db:"avatar_url"`
	StatusMsg string    `json:"status_message" db:"status_message"`
}

// Summary returns the public projection of the account
func (a *Account) Summary() *Summary {
	return &Summary{
		ID:        a.ID,
		Nickname:  a.Nickname,
		AvatarURL: a.AvatarURL.String,
		StatusMsg: a.StatusMsg.String,
	}
}

// GenerateNickname returns a random default nickname for new accounts
func GenerateNickname() string {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return fmt.Sprintf("user_%d", time.Now().UnixNano()%10000)
	}
	return fmt.Sprintf("user_%d", n.Int64())
}
