package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/securecookie"

	"github.com/dakka24/dakka/internal/auth"
	"github.com/dakka24/dakka/internal/client"
	"github.com/dakka24/dakka/internal/config"
	"github.com/dakka24/dakka/internal/db"
	"github.com/dakka24/dakka/internal/gateway"
	"github.com/dakka24/dakka/internal/gateway/memory"
	"github.com/dakka24/dakka/internal/handlers"
	"github.com/dakka24/dakka/internal/i18n"
	"github.com/dakka24/dakka/internal/middleware"
	"github.com/dakka24/dakka/internal/repositories"
	"github.com/dakka24/dakka/internal/storage"
)

// memoryObjectsBase is where the in-process object store is mounted.
const memoryObjectsBase = "/objects"

// buildDependencies wires together concrete implementations used by the HTTP
// handlers. A nil pool selects the in-process backend.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config, logger *slog.Logger) (handlers.Dependencies, error) {
	catalog, err := i18n.Load()
	if err != nil {
		return handlers.Dependencies{}, err
	}

	signingKey := []byte(cfg.JWTSecret)
	if len(signingKey) == 0 {
		logger.Warn("DAKKA_JWT_SECRET not set, using an ephemeral signing key")
		signingKey = securecookie.GenerateRandomKey(32)
	}
	sessionSecret := cfg.SessionSecret
	if sessionSecret == "" {
		logger.Warn("DAKKA_SESSION_SECRET not set, sessions will not survive a restart")
		sessionSecret = string(securecookie.GenerateRandomKey(32))
	}
	authCfg := auth.Config{
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
		SigningKey: signingKey,
	}

	deps := handlers.Dependencies{
		Logger:           logger,
		Catalog:          catalog,
		MaxUploadBytes:   cfg.MaxUploadBytes,
		LeaderboardLimit: cfg.LeaderboardLimit,
		AllowedOrigins:   cfg.AllowedOrigins,
		Sessions:         handlers.NewCookieStore(sessionSecret, cfg.RefreshTokenTTL, cfg.SecureCookies),
	}
	if cfg.AuthRateLimit > 0 {
		deps.AuthLimiter = middleware.NewIPRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow, cfg.AuthRateLimit, 10*cfg.AuthRateWindow)
	}

	if pool == nil {
		manager := auth.NewManager(authCfg, auth.NewInMemoryAccountStore(), auth.NewInMemorySessionStore())
		backend, _, objects := memory.NewBackend(manager, memoryObjectsBase)
		deps.Backend = backend
		deps.ObjectFiles = objects
	} else {
		objects, err := storage.New(ctx, cfg.ObjectStore)
		if err != nil {
			return handlers.Dependencies{}, fmt.Errorf("object store: %w", err)
		}
		manager := auth.NewManager(authCfg, repositories.NewPostgresAccountStore(pool), repositories.NewPostgresSessionStore(pool))
		deps.Backend = gateway.Backend{
			Identity: manager,
			Users:    repositories.NewPostgresUserRepository(pool),
			Media:    repositories.NewPostgresVideoRepository(pool),
			Comments: repositories.NewPostgresCommentRepository(pool),
			Objects:  objects,
		}
	}
	if !deps.Backend.Complete() {
		return handlers.Dependencies{}, errors.New("backend is incomplete")
	}

	deps.Apps = handlers.NewAppRegistry(newAppFactory(deps.Backend, catalog, cfg), cfg.AppIdleTTL)
	return deps, nil
}

func newAppFactory(backend gateway.Backend, catalog *i18n.Catalog, cfg config.Config) handlers.AppFactory {
	return func() (*client.App, error) {
		return client.NewApp(client.Options{
			Backend:          backend,
			Catalog:          catalog,
			Locale:           cfg.Locale,
			Location:         time.Local,
			LeaderboardLimit: cfg.LeaderboardLimit,
		})
	}
}
