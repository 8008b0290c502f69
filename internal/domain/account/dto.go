package account

import "github.com/google/uuid"

// UpdateProfileRequest for PATCH /users/me
type UpdateProfileRequest struct {
	Nickname      string  `json:"nickname" validate:"omitempty,min=2,max=30"`
	StatusMessage *string `json:"status_message" validate:"omitempty,max=200"`
}

// ProfileResponse is the account's public profile including the cached
// neighbor-ID lists
type ProfileResponse struct {
	ID            uuid.UUID   `json:"id"`
	Nickname      string      `json:"nickname"`
	AvatarURL     string      `json:"avatar_url"`
	StatusMessage string      `json:"status_message"`
	Followers     []uuid.UUID `json:"followers"`
	Following     []uuid.UUID `json:"following"`
}

func newProfileResponse(a *Account) *ProfileResponse {
	followers := a.Followers
	if followers == nil {
		followers = []uuid.UUID{}
	}
	following := a.Following
	if following == nil {
		following = []uuid.UUID{}
	}

	return &ProfileResponse{
		ID:            a.ID,
		Nickname:      a.Nickname,
		AvatarURL:     a.AvatarURL.String,
		StatusMessage: a.StatusMsg.String,
		Followers:     followers,
		Following:     following,
	}
}
