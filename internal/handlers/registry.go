package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dakka24/dakka/internal/client"
	"github.com/dakka24/dakka/internal/middleware"
)

// AppFactory builds a fresh signed-out app.
type AppFactory func() (*client.App, error)

type registryEntry struct {
	app      *client.App
	lastSeen time.Time
}

// AppRegistry holds one client.App per browser session and forgets apps that
// have been idle longer than the ttl.
type AppRegistry struct {
	mu      sync.Mutex
	apps    map[string]*registryEntry
	factory AppFactory
	ttl     time.Duration
	now     func() time.Time
}

// NewAppRegistry returns an empty registry.
func NewAppRegistry(factory AppFactory, ttl time.Duration) *AppRegistry {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &AppRegistry{
		apps:    make(map[string]*registryEntry),
		factory: factory,
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithNowFunc allows tests to override the time source.
func (r *AppRegistry) WithNowFunc(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// Get returns the app registered under id and marks it as used.
func (r *AppRegistry) Get(id string) (*client.App, bool) {
	if id == "" {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.apps[id]
	if !ok {
		return nil, false
	}
	entry.lastSeen = r.now()
	return entry.app, true
}

// Create builds and registers a new app.
func (r *AppRegistry) Create() (string, *client.App, error) {
	app, err := r.factory()
	if err != nil {
		return "", nil, err
	}
	id := uuid.NewString()

	r.mu.Lock()
	r.apps[id] = &registryEntry{app: app, lastSeen: r.now()}
	n := len(r.apps)
	r.mu.Unlock()

	middleware.SetActiveApps(n)
	return id, app, nil
}

// Remove forgets the app registered under id.
func (r *AppRegistry) Remove(id string) {
	r.mu.Lock()
	delete(r.apps, id)
	n := len(r.apps)
	r.mu.Unlock()
	middleware.SetActiveApps(n)
}

// Len returns the number of registered apps.
func (r *AppRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.apps)
}

// Sweep drops idle apps and reports how many were removed.
func (r *AppRegistry) Sweep() int {
	r.mu.Lock()
	now := r.now()
	removed := 0
	for id, entry := range r.apps {
		if now.Sub(entry.lastSeen) > r.ttl {
			delete(r.apps, id)
			removed++
		}
	}
	n := len(r.apps)
	r.mu.Unlock()

	middleware.SetActiveApps(n)
	return removed
}

// Run sweeps every interval until ctx is done.
func (r *AppRegistry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}
