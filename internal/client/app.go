// Package client holds the data-sync and rendering model of the 24 Dakka UI:
// who is signed in, which collections are shown, which overlay is open, and
// the handlers that mutate remote state and then reload what they touched.
package client

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dakka24/dakka/internal/gateway"
	"github.com/dakka24/dakka/internal/i18n"
	"github.com/dakka24/dakka/internal/logging"
	"github.com/dakka24/dakka/internal/models"
	"github.com/dakka24/dakka/internal/view"
)

// NoticeLevel classifies a user-facing message.
type NoticeLevel string

const (
	NoticeInfo  NoticeLevel = "info"
	NoticeError NoticeLevel = "error"
)

// Notice is a message shown to the user once.
type Notice struct {
	Level NoticeLevel `json:"level"`
	Text  string      `json:"text"`
}

// AuthMode selects what the auth overlay submits.
type AuthMode int

const (
	AuthSignIn AuthMode = iota
	AuthSignUp
)

func (m AuthMode) String() string {
	if m == AuthSignUp {
		return "signup"
	}
	return "signin"
}

// Options configures an App.
type Options struct {
	Backend          gateway.Backend
	Catalog          *i18n.Catalog
	Locale           string
	Now              func() time.Time
	Location         *time.Location
	LeaderboardLimit int
	// NewToken generates the unique part of an upload path. Defaults to NewObjectToken.
	NewToken func(time.Time) string
}

// App is one user's client. Events are processed one at a time; each handler
// finishes its write and the reads that follow before the next event starts.
type App struct {
	mu sync.Mutex

	backend  gateway.Backend
	catalog  *i18n.Catalog
	locale   string
	now      func() time.Time
	newToken func(time.Time) string
	limit    int
	cards    cards

	session  Session
	overlays *Overlays
	authMode AuthMode
	pending  *LocalFile
	detail   *models.MediaItem
	playing  *models.MediaItem
	draft    string

	videos      *view.List
	leaderboard *view.List
	comments    *view.List
	media       map[string]models.MediaItem

	notices []Notice
	busy    atomic.Pointer[string]
	// span is the span of the event holding mu.
	span *logging.Span
}

// NewApp returns a signed-out App with empty collections.
func NewApp(opts Options) (*App, error) {
	if !opts.Backend.Complete() {
		return nil, errors.New("client: backend is incomplete")
	}
	if opts.Catalog == nil {
		return nil, errors.New("client: message catalog is required")
	}
	if opts.Locale == "" || !opts.Catalog.Has(opts.Locale) {
		opts.Locale = i18n.DefaultLocale
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewToken == nil {
		opts.NewToken = NewObjectToken
	}
	if opts.LeaderboardLimit <= 0 {
		opts.LeaderboardLimit = DefaultLeaderboardLimit
	}

	a := &App{
		backend:  opts.Backend,
		catalog:  opts.Catalog,
		locale:   opts.Locale,
		now:      opts.Now,
		newToken: opts.NewToken,
		limit:    opts.LeaderboardLimit,
		cards: cards{
			catalog: opts.Catalog,
			locale:  opts.Locale,
			clock:   RelativeTime{Now: opts.Now, Locale: opts.Locale, Catalog: opts.Catalog, Location: opts.Location},
		},
		media: make(map[string]models.MediaItem),
	}
	a.overlays = NewOverlays(OverlayHooks{
		UploadClosed:  func() { a.pending = nil },
		MediaClosed:   func() { a.playing = nil },
		SidebarClosed: a.clearDetail,
	})
	a.videos = view.NewList(a.cards.uploadCard())
	a.leaderboard = view.NewList()
	a.comments = view.NewList()
	return a, nil
}

// Locale returns the locale the app renders in.
func (a *App) Locale() string {
	return a.locale
}

// Busy returns the name of the action in flight, or "" when idle. It does not
// wait for the action to finish.
func (a *App) Busy() string {
	if name := a.busy.Load(); name != nil {
		return *name
	}
	return ""
}

// Tokens returns the tokens of the current session so a host can persist them.
func (a *App) Tokens() models.SessionTokens {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session.Tokens()
}

// SignedIn reports whether a user is signed in.
func (a *App) SignedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session.SignedIn()
}

// Start restores the session behind tokens. With no usable session the auth
// overlay opens; otherwise the profile, leaderboard and feed are loaded.
func (a *App) Start(ctx context.Context, tokens models.SessionTokens) error {
	ctx, done := a.begin(ctx, "start")
	defer done()

	if tokens.IsZero() {
		a.overlays.Open(OverlayAuth)
		return nil
	}

	session, ok, err := a.backend.Identity.CurrentSession(ctx, tokens)
	if err != nil {
		a.overlays.Open(OverlayAuth)
		return a.gatewayFailure(ctx, "restore session", "error.gateway", err)
	}
	if !ok {
		a.overlays.Open(OverlayAuth)
		return nil
	}

	a.session.Establish(session)
	a.loadSignedIn(ctx)
	return nil
}

// Refresh reloads every collection that is on screen.
func (a *App) Refresh(ctx context.Context) {
	ctx, done := a.begin(ctx, "refresh")
	defer done()

	if !a.session.SignedIn() {
		return
	}
	a.loadSignedIn(ctx)
	if a.detail != nil {
		a.reloadComments(ctx)
	}
}

// begin takes the event lock, opens a span and marks the app busy. The
// returned func undoes all three and must run on every exit path.
func (a *App) begin(ctx context.Context, action string) (context.Context, func()) {
	a.mu.Lock()
	ctx, span := logging.StartSpan(ctx, "client."+action)
	a.span = span
	a.busy.Store(&action)
	return ctx, func() {
		a.busy.Store(nil)
		span.End()
		a.span = nil
		a.mu.Unlock()
	}
}

func (a *App) loadSignedIn(ctx context.Context) {
	a.reloadProfile(ctx)
	a.reloadLeaderboard(ctx)
	a.reloadVideos(ctx)
}

func (a *App) reloadProfile(ctx context.Context) {
	identity, ok := a.session.Identity()
	if !ok {
		return
	}
	user, found, err := a.backend.Users.GetProfile(ctx, identity.UserID)
	if err != nil {
		a.loadFailure(ctx, &GatewayError{Op: "get profile", Err: err})
		return
	}
	if found {
		a.session.SetProfile(user)
	}
}

func (a *App) reloadVideos(ctx context.Context) {
	items, err := Refresh[models.MediaItem](ctx, VideoLoader{Rows: a.backend.Media}, a.cards.videos(), a.videos)
	if err != nil {
		a.loadFailure(ctx, err)
		return
	}
	a.media = make(map[string]models.MediaItem, len(items))
	for _, item := range items {
		a.media[item.ID] = item
	}
}

func (a *App) reloadLeaderboard(ctx context.Context) {
	loader := LeaderboardLoader{Rows: a.backend.Users, Limit: a.limit}
	if _, err := Refresh[models.User](ctx, loader, a.cards.leaderboard(), a.leaderboard); err != nil {
		a.loadFailure(ctx, err)
	}
}

func (a *App) reloadComments(ctx context.Context) {
	if a.detail == nil {
		return
	}
	loader := CommentLoader{Rows: a.backend.Comments, VideoID: a.detail.ID}
	if _, err := Refresh[models.Comment](ctx, loader, a.cards.comments(), a.comments); err != nil {
		a.loadFailure(ctx, err)
	}
}

func (a *App) clearDetail() {
	a.detail = nil
	a.draft = ""
	a.comments.Reset()
}

// loadFailure reports a failed read. The affected container keeps what it showed.
func (a *App) loadFailure(ctx context.Context, err error) {
	logging.FromContext(ctx).Warn("collection load failed", slog.Any("error", err))
	a.span.Fail(err)
	a.notify(NoticeError, a.t("error.load", err.Error()))
}

func (a *App) gatewayFailure(ctx context.Context, op, key string, err error) error {
	logging.FromContext(ctx).Error("gateway call failed", slog.String("op", op), slog.Any("error", err))
	a.span.Fail(err)
	a.notify(NoticeError, a.t(key, err.Error()))
	return &GatewayError{Op: op, Err: err}
}

func (a *App) violation(ctx context.Context, reason string) error {
	logging.FromContext(ctx).Debug("guard rejected action", slog.String("reason", reason))
	a.notify(NoticeError, a.t(reason))
	return guard(reason)
}

func (a *App) notify(level NoticeLevel, text string) {
	a.notices = append(a.notices, Notice{Level: level, Text: text})
}

func (a *App) t(key string, args ...any) string {
	return a.catalog.T(a.locale, key, args...)
}
