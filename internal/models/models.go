package models

import "time"

// User is the public profile row of an account. VideoCount is maintained by
// the backend and only ever read by clients.
type User struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email,omitempty"`
	AvatarURL  *string   `json:"avatarUrl,omitempty"`
	VideoCount int       `json:"videoCount"`
	CreatedAt  time.Time `json:"createdAt"`
}

// MediaItem is an uploaded video or image with its owner's display name joined in.
type MediaItem struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Title         string    `json:"title"`
	Description   *string   `json:"description,omitempty"`
	MediaURL      string    `json:"mediaUrl"`
	ThumbnailURL  *string   `json:"thumbnailUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	OwnerUsername *string   `json:"ownerUsername,omitempty"`
}

// Comment is a remark left on a media item, with the author's display fields joined in.
type Comment struct {
	ID             string    `json:"id"`
	VideoID        string    `json:"videoId"`
	UserID         string    `json:"userId"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"createdAt"`
	OwnerUsername  *string   `json:"ownerUsername,omitempty"`
	OwnerAvatarURL *string   `json:"ownerAvatarUrl,omitempty"`
}

// Credentials are the inputs accepted by the identity provider.
type Credentials struct {
	Email    string
	Password string
}

// Identity is the authenticated principal behind a session.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// SessionTokens groups the bearer credentials issued to authenticated users.
type SessionTokens struct {
	AccessToken      string    `json:"accessToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

// IsZero reports whether no tokens are present.
func (t SessionTokens) IsZero() bool {
	return t.AccessToken == "" && t.RefreshToken == ""
}

// AuthSession pairs an identity with the tokens proving it.
type AuthSession struct {
	Identity Identity
	Tokens   SessionTokens
}
