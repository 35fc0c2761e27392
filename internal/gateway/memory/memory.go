// Package memory is a process-local gateway backend for development and tests.
// Nothing survives a restart.
package memory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dakka24/dakka/internal/gateway"
	"github.com/dakka24/dakka/internal/models"
)

var (
	// ErrNotFound is returned when a referenced row does not exist.
	ErrNotFound = errors.New("memory: not found")
	// ErrConflict is returned when a row with the same key already exists.
	ErrConflict = errors.New("memory: conflict")
	// ErrObjectExists is returned when a put without overwrite hits an existing path.
	ErrObjectExists = errors.New("memory: object already exists")
)

// NewBackend combines identity with fresh in-memory rows and objects.
func NewBackend(identity gateway.Identity, publicBase string) (gateway.Backend, *Rows, *Objects) {
	rows := NewRows()
	objects := NewObjects(publicBase)
	return gateway.Backend{
		Identity: identity,
		Users:    rows,
		Media:    rows,
		Comments: rows,
		Objects:  objects,
	}, rows, objects
}

type mediaRow struct {
	item models.MediaItem
	seq  int
}

type commentRow struct {
	comment models.Comment
	seq     int
}

// Rows keeps users, media items and comments. video_count is maintained on
// insert the way the database trigger does it.
type Rows struct {
	mu       sync.RWMutex
	users    map[string]models.User
	media    []mediaRow
	comments []commentRow
	seq      int
	now      func() time.Time
}

// NewRows returns empty tables.
func NewRows() *Rows {
	return &Rows{
		users: make(map[string]models.User),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithNowFunc overrides the clock used for created_at.
func (r *Rows) WithNowFunc(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

func (r *Rows) InsertProfile(_ context.Context, user models.User) error {
	if user.ID == "" {
		return fmt.Errorf("insert profile: %w", ErrNotFound)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; ok {
		return fmt.Errorf("insert profile %s: %w", user.ID, ErrConflict)
	}
	user.VideoCount = 0
	user.CreatedAt = r.now()
	r.users[user.ID] = user
	return nil
}

func (r *Rows) GetProfile(_ context.Context, userID string) (models.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[userID]
	return user, ok, nil
}

func (r *Rows) UpdateAvatar(_ context.Context, userID, avatarURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return fmt.Errorf("update avatar %s: %w", userID, ErrNotFound)
	}
	user.AvatarURL = &avatarURL
	r.users[userID] = user
	return nil
}

func (r *Rows) ListLeaderboard(_ context.Context, limit int) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]models.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].VideoCount != users[j].VideoCount {
			return users[i].VideoCount > users[j].VideoCount
		}
		return users[i].Username < users[j].Username
	})
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (r *Rows) InsertMediaItem(_ context.Context, item models.MediaItem) (models.MediaItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owner, ok := r.users[item.UserID]
	if !ok {
		return models.MediaItem{}, fmt.Errorf("insert media item for %s: %w", item.UserID, ErrNotFound)
	}
	r.seq++
	item.ID = uuid.NewString()
	item.CreatedAt = r.now()
	r.media = append(r.media, mediaRow{item: item, seq: r.seq})

	owner.VideoCount++
	r.users[owner.ID] = owner

	return r.withOwner(item), nil
}

func (r *Rows) ListMediaItems(_ context.Context) ([]models.MediaItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rows := append([]mediaRow(nil), r.media...)
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].item.CreatedAt.Equal(rows[j].item.CreatedAt) {
			return rows[i].item.CreatedAt.After(rows[j].item.CreatedAt)
		}
		return rows[i].seq > rows[j].seq
	})
	items := make([]models.MediaItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, r.withOwner(row.item))
	}
	return items, nil
}

func (r *Rows) InsertComment(_ context.Context, comment models.Comment) (models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.hasMedia(comment.VideoID) {
		return models.Comment{}, fmt.Errorf("insert comment on %s: %w", comment.VideoID, ErrNotFound)
	}
	if _, ok := r.users[comment.UserID]; !ok {
		return models.Comment{}, fmt.Errorf("insert comment by %s: %w", comment.UserID, ErrNotFound)
	}
	r.seq++
	comment.ID = uuid.NewString()
	comment.CreatedAt = r.now()
	r.comments = append(r.comments, commentRow{comment: comment, seq: r.seq})
	return r.withAuthor(comment), nil
}

func (r *Rows) ListComments(_ context.Context, videoID string) ([]models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var rows []commentRow
	for _, row := range r.comments {
		if row.comment.VideoID == videoID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].comment.CreatedAt.Equal(rows[j].comment.CreatedAt) {
			return rows[i].comment.CreatedAt.After(rows[j].comment.CreatedAt)
		}
		return rows[i].seq > rows[j].seq
	})
	comments := make([]models.Comment, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, r.withAuthor(row.comment))
	}
	return comments, nil
}

func (r *Rows) hasMedia(id string) bool {
	for _, row := range r.media {
		if row.item.ID == id {
			return true
		}
	}
	return false
}

func (r *Rows) withOwner(item models.MediaItem) models.MediaItem {
	item.OwnerUsername = nil
	if owner, ok := r.users[item.UserID]; ok {
		name := owner.Username
		item.OwnerUsername = &name
	}
	return item
}

func (r *Rows) withAuthor(comment models.Comment) models.Comment {
	comment.OwnerUsername, comment.OwnerAvatarURL = nil, nil
	if author, ok := r.users[comment.UserID]; ok {
		name := author.Username
		comment.OwnerUsername = &name
		comment.OwnerAvatarURL = author.AvatarURL
	}
	return comment
}

// Object is a stored payload.
type Object struct {
	ContentType string
	Data        []byte
}

// Objects keeps payloads by path and serves them over HTTP.
type Objects struct {
	mu      sync.RWMutex
	objects map[string]Object
	base    string
}

// NewObjects returns an empty store whose public URLs start with publicBase.
func NewObjects(publicBase string) *Objects {
	return &Objects{objects: make(map[string]Object), base: strings.TrimRight(publicBase, "/")}
}

func (o *Objects) Put(ctx context.Context, path string, body io.Reader, opts gateway.PutOptions) error {
	path = strings.Trim(path, "/")
	if path == "" {
		return errors.New("memory: object path is empty")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read object body: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	prev, exists := o.objects[path]
	if exists && !opts.Overwrite {
		return fmt.Errorf("put %s: %w", path, ErrObjectExists)
	}
	contentType := opts.ContentType
	if contentType == "" {
		// An overwrite without a type keeps the one already stored.
		contentType = prev.ContentType
	}
	o.objects[path] = Object{ContentType: contentType, Data: data}
	return nil
}

func (o *Objects) PublicURL(path string) string {
	return o.base + "/" + strings.TrimLeft(path, "/")
}

// Get returns the object stored at path.
func (o *Objects) Get(path string) (Object, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	obj, ok := o.objects[strings.Trim(path, "/")]
	return obj, ok
}

// Len returns the number of stored objects.
func (o *Objects) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.objects)
}

// ServeHTTP serves the object named by the request path below the public base.
func (o *Objects) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	obj, ok := o.Get(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if obj.ContentType != "" {
		w.Header().Set("Content-Type", obj.ContentType)
	}
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(obj.Data)
}

var (
	_ gateway.UserRows    = (*Rows)(nil)
	_ gateway.MediaRows   = (*Rows)(nil)
	_ gateway.CommentRows = (*Rows)(nil)
	_ gateway.Objects     = (*Objects)(nil)
)
