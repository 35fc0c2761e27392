package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dakka24/dakka/internal/gateway"
	"github.com/dakka24/dakka/internal/i18n"
	"github.com/dakka24/dakka/internal/middleware"
)

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Logger           *slog.Logger
	Backend          gateway.Backend
	Apps             *AppRegistry
	Sessions         sessions.Store
	Catalog          *i18n.Catalog
	MaxUploadBytes   int64
	LeaderboardLimit int
	AuthLimiter      middleware.RateLimiter
	AllowedOrigins   []string
	// ObjectFiles serves stored objects under /objects when the object store
	// is in-process. Nil when objects are served by the store itself.
	ObjectFiles http.Handler
	Health      Pinger
}

// NewRouter wires every HTTP route behind the shared middleware chain.
func NewRouter(deps Dependencies) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.Compress())

	health := HealthHandler{}
	if deps.Health != nil {
		health.Check = func(ctx context.Context) error { return deps.Health.Ping(ctx) }
	}
	web := NewWebHandler(deps.Apps, deps.Sessions, deps.Catalog, deps.MaxUploadBytes)
	videos := VideoHandler{
		Users:            deps.Backend.Users,
		Media:            deps.Backend.Media,
		Comments:         deps.Backend.Comments,
		LeaderboardLimit: deps.LeaderboardLimit,
	}

	r.Get("/healthz", health.Handle)
	r.Handle("/metrics", promhttp.Handler())
	if deps.ObjectFiles != nil {
		r.Handle("/objects/*", http.StripPrefix("/objects", deps.ObjectFiles))
	}

	r.Get("/", web.Page)
	r.Get("/status", web.Status)
	r.Post("/refresh", web.Refresh)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(deps.AuthLimiter, "auth"))
		r.Post("/auth", web.Authenticate)
	})
	r.Post("/auth/mode", web.ToggleAuthMode)
	r.Post("/logout", web.Logout)

	r.Post("/overlays/outside", web.ClickOutside)
	r.Post("/overlays/{name}/open", web.OpenOverlay)
	r.Post("/overlays/{name}/close", web.CloseOverlay)

	r.Post("/upload", web.Upload)
	r.Post("/videos/{id}/comments/open", web.OpenComments)
	r.Post("/videos/{id}/play", web.PlayMedia)
	r.Post("/comments", web.SubmitComment)
	r.Post("/comments/close", web.CloseComments)
	r.Post("/media/close", web.CloseMedia)
	r.Post("/profile/avatar", web.ChangeAvatar)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.CORS(deps.AllowedOrigins))
		r.Get("/videos", videos.Feed)
		r.Get("/videos/{id}/comments", videos.CommentList)
		r.Get("/leaderboard", videos.Leaderboard)
	})

	return r
}
