// Package gateway describes the backend the client core talks to: identity,
// row storage and object storage.
package gateway

import (
	"context"
	"io"

	"github.com/dakka24/dakka/internal/models"
)

// Identity establishes and ends authenticated sessions.
type Identity interface {
	SignUp(ctx context.Context, creds models.Credentials) (models.AuthSession, error)
	SignIn(ctx context.Context, creds models.Credentials) (models.AuthSession, error)
	// CurrentSession resolves persisted tokens. ok is false when there is no
	// usable session; err is reserved for backend failures.
	CurrentSession(ctx context.Context, tokens models.SessionTokens) (session models.AuthSession, ok bool, err error)
	SignOut(ctx context.Context, tokens models.SessionTokens) error
}

// UserRows covers the users table.
type UserRows interface {
	InsertProfile(ctx context.Context, user models.User) error
	// GetProfile returns ok=false when no row matches.
	GetProfile(ctx context.Context, userID string) (user models.User, ok bool, err error)
	UpdateAvatar(ctx context.Context, userID, avatarURL string) error
	ListLeaderboard(ctx context.Context, limit int) ([]models.User, error)
}

// MediaRows covers the videos table.
type MediaRows interface {
	InsertMediaItem(ctx context.Context, item models.MediaItem) (models.MediaItem, error)
	ListMediaItems(ctx context.Context) ([]models.MediaItem, error)
}

// CommentRows covers the comments table.
type CommentRows interface {
	InsertComment(ctx context.Context, comment models.Comment) (models.Comment, error)
	ListComments(ctx context.Context, videoID string) ([]models.Comment, error)
}

// PutOptions controls an object write.
type PutOptions struct {
	Overwrite   bool
	ContentType string
	// Size is the body length in bytes, or -1 when unknown.
	Size int64
}

// Objects stores binary payloads under slash-separated paths.
type Objects interface {
	Put(ctx context.Context, path string, body io.Reader, opts PutOptions) error
	PublicURL(path string) string
}

// Backend bundles every collaborator the client needs.
type Backend struct {
	Identity Identity
	Users    UserRows
	Media    MediaRows
	Comments CommentRows
	Objects  Objects
}

// Complete reports whether all collaborators are configured.
func (b Backend) Complete() bool {
	return b.Identity != nil && b.Users != nil && b.Media != nil && b.Comments != nil && b.Objects != nil
}
