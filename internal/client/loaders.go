package client

import (
	"context"

	"github.com/dakka24/dakka/internal/gateway"
	"github.com/dakka24/dakka/internal/models"
)

// DefaultLeaderboardLimit caps the leaderboard when no limit is configured.
const DefaultLeaderboardLimit = 10

// Loader fetches one collection from the backend. Loaders never cache; every
// call goes to the backend.
type Loader[T any] interface {
	Load(ctx context.Context) ([]T, error)
}

// VideoLoader lists every media item, newest first.
type VideoLoader struct {
	Rows gateway.MediaRows
}

func (l VideoLoader) Load(ctx context.Context) ([]models.MediaItem, error) {
	items, err := l.Rows.ListMediaItems(ctx)
	if err != nil {
		return nil, &GatewayError{Op: "list videos", Err: err}
	}
	return items, nil
}

// LeaderboardLoader lists users by video count.
type LeaderboardLoader struct {
	Rows  gateway.UserRows
	Limit int
}

func (l LeaderboardLoader) Load(ctx context.Context) ([]models.User, error) {
	limit := l.Limit
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	users, err := l.Rows.ListLeaderboard(ctx, limit)
	if err != nil {
		return nil, &GatewayError{Op: "list leaderboard", Err: err}
	}
	return users, nil
}

// CommentLoader lists the comments of one media item, newest first.
type CommentLoader struct {
	Rows    gateway.CommentRows
	VideoID string
}

func (l CommentLoader) Load(ctx context.Context) ([]models.Comment, error) {
	comments, err := l.Rows.ListComments(ctx, l.VideoID)
	if err != nil {
		return nil, &GatewayError{Op: "list comments", Err: err}
	}
	return comments, nil
}
