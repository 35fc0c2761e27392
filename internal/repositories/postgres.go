package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/dakka24/dakka/internal/db"
	"github.com/dakka24/dakka/internal/gateway"
	"github.com/dakka24/dakka/internal/models"
)

// PostgresUserRepository provides PostgreSQL-backed persistence for profiles.
type PostgresUserRepository struct {
	pool db.Pool
}

// NewPostgresUserRepository constructs a user repository backed by PostgreSQL.
func NewPostgresUserRepository(pool db.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// InsertProfile persists a new profile row. video_count starts at zero.
func (r *PostgresUserRepository) InsertProfile(ctx context.Context, user models.User) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO users (id, username, email, avatar_url)
        VALUES ($1, $2, $3, $4)
    `, user.ID, user.Username, user.Email, user.AvatarURL)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetProfile fetches a profile by id; ok is false when it does not exist.
func (r *PostgresUserRepository) GetProfile(ctx context.Context, userID string) (models.User, bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, username, email, avatar_url, video_count, created_at
        FROM users
        WHERE id = $1
    `, userID)

	var user models.User
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.AvatarURL, &user.VideoCount, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, false, nil
		}
		return models.User{}, false, fmt.Errorf("select user: %w", err)
	}

	return user, true, nil
}

// UpdateAvatar points a profile at a new avatar image.
func (r *PostgresUserRepository) UpdateAvatar(ctx context.Context, userID, avatarURL string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE users
        SET avatar_url = $2
        WHERE id = $1
    `, userID, avatarURL)
	if err != nil {
		return fmt.Errorf("update user avatar: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ListLeaderboard returns profiles ranked by upload count.
func (r *PostgresUserRepository) ListLeaderboard(ctx context.Context, limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = 10
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT id, username, email, avatar_url, video_count, created_at
        FROM users
        ORDER BY video_count DESC, username ASC
        LIMIT $1
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.AvatarURL, &user.VideoCount, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan leaderboard user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leaderboard: %w", err)
	}

	return users, nil
}

// PostgresVideoRepository provides PostgreSQL-backed persistence for media items.
type PostgresVideoRepository struct {
	pool db.Pool
}

// NewPostgresVideoRepository constructs a video repository backed by PostgreSQL.
func NewPostgresVideoRepository(pool db.Pool) *PostgresVideoRepository {
	return &PostgresVideoRepository{pool: pool}
}

// InsertMediaItem stores a new media row and returns it with server-generated
// id and timestamp. The owner's video_count is bumped by a trigger.
func (r *PostgresVideoRepository) InsertMediaItem(ctx context.Context, item models.MediaItem) (models.MediaItem, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.MediaItem{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        WITH inserted AS (
            INSERT INTO videos (user_id, title, description, video_url, thumbnail_url)
            VALUES ($1, $2, $3, $4, $5)
            RETURNING id, user_id, title, description, video_url, thumbnail_url, created_at
        )
        SELECT i.id, i.user_id, i.title, i.description, i.video_url, i.thumbnail_url, i.created_at, u.username
        FROM inserted i
        LEFT JOIN users u ON u.id = i.user_id
    `, item.UserID, item.Title, emptyToNil(item.Description), item.MediaURL, item.ThumbnailURL)

	var stored models.MediaItem
	if err := row.Scan(&stored.ID, &stored.UserID, &stored.Title, &stored.Description, &stored.MediaURL, &stored.ThumbnailURL, &stored.CreatedAt, &stored.OwnerUsername); err != nil {
		switch pgCode(err) {
		case pgForeignKeyViolation:
			return models.MediaItem{}, ErrNotFound
		case pgUniqueViolation:
			return models.MediaItem{}, ErrConflict
		}
		return models.MediaItem{}, fmt.Errorf("insert video: %w", err)
	}

	return stored, nil
}

// ListMediaItems returns every media item, newest first, with owner usernames.
func (r *PostgresVideoRepository) ListMediaItems(ctx context.Context) ([]models.MediaItem, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT v.id, v.user_id, v.title, v.description, v.video_url, v.thumbnail_url, v.created_at, u.username
        FROM videos v
        LEFT JOIN users u ON u.id = v.user_id
        ORDER BY v.created_at DESC, v.id DESC
    `)
	if err != nil {
		return nil, fmt.Errorf("query videos: %w", err)
	}
	defer rows.Close()

	items := []models.MediaItem{}
	for rows.Next() {
		var item models.MediaItem
		if err := rows.Scan(&item.ID, &item.UserID, &item.Title, &item.Description, &item.MediaURL, &item.ThumbnailURL, &item.CreatedAt, &item.OwnerUsername); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}

	return items, nil
}

// PostgresCommentRepository provides PostgreSQL-backed persistence for comments.
type PostgresCommentRepository struct {
	pool db.Pool
}

// NewPostgresCommentRepository constructs a comment repository backed by PostgreSQL.
func NewPostgresCommentRepository(pool db.Pool) *PostgresCommentRepository {
	return &PostgresCommentRepository{pool: pool}
}

// InsertComment stores a comment; unknown videos or authors yield ErrNotFound.
func (r *PostgresCommentRepository) InsertComment(ctx context.Context, comment models.Comment) (models.Comment, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Comment{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        WITH inserted AS (
            INSERT INTO comments (video_id, user_id, text)
            VALUES ($1, $2, $3)
            RETURNING id, video_id, user_id, text, created_at
        )
        SELECT i.id, i.video_id, i.user_id, i.text, i.created_at, u.username, u.avatar_url
        FROM inserted i
        LEFT JOIN users u ON u.id = i.user_id
    `, comment.VideoID, comment.UserID, comment.Text)

	var stored models.Comment
	if err := row.Scan(&stored.ID, &stored.VideoID, &stored.UserID, &stored.Text, &stored.CreatedAt, &stored.OwnerUsername, &stored.OwnerAvatarURL); err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return models.Comment{}, ErrNotFound
		}
		return models.Comment{}, fmt.Errorf("insert comment: %w", err)
	}

	return stored, nil
}

// ListComments returns the comments on a video, newest first.
func (r *PostgresCommentRepository) ListComments(ctx context.Context, videoID string) ([]models.Comment, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT c.id, c.video_id, c.user_id, c.text, c.created_at, u.username, u.avatar_url
        FROM comments c
        LEFT JOIN users u ON u.id = c.user_id
        WHERE c.video_id = $1
        ORDER BY c.created_at DESC, c.id DESC
    `, videoID)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var comment models.Comment
		if err := rows.Scan(&comment.ID, &comment.VideoID, &comment.UserID, &comment.Text, &comment.CreatedAt, &comment.OwnerUsername, &comment.OwnerAvatarURL); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}

	return comments, nil
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

var _ gateway.UserRows = (*PostgresUserRepository)(nil)
var _ gateway.MediaRows = (*PostgresVideoRepository)(nil)
var _ gateway.CommentRows = (*PostgresCommentRepository)(nil)
