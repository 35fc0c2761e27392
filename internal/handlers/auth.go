package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dakka24/dakka/internal/client"
	"github.com/dakka24/dakka/internal/logging"
	"github.com/dakka24/dakka/internal/middleware"
)

type authRequest struct {
	Email    string `validate:"omitempty,email,max=254"`
	Password string `validate:"max=128"`
	Username string `validate:"omitempty,min=2,max=32"`
}

// Authenticate handles POST /auth. It signs in or signs up depending on the
// auth overlay's mode.
func (h *WebHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "auth", func(ctx context.Context, app *client.App) error {
		req := authRequest{
			Email:    strings.TrimSpace(strings.ToLower(r.FormValue("email"))),
			Password: r.FormValue("password"),
			Username: strings.TrimSpace(r.FormValue("username")),
		}
		if err := h.validate.Struct(req); err != nil {
			return h.reject(app, err)
		}
		return app.Authenticate(ctx, client.AuthForm{Email: req.Email, Password: req.Password, Username: req.Username})
	})
}

// ToggleAuthMode handles POST /auth/mode.
func (h *WebHandler) ToggleAuthMode(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "auth.mode", func(_ context.Context, app *client.App) error {
		app.ToggleAuthMode()
		return nil
	})
}

// Logout handles POST /logout. The app is discarded and the cookie cleared,
// so the next page load starts from scratch.
func (h *WebHandler) Logout(w http.ResponseWriter, r *http.Request) {
	app, sess, ctx, err := h.appFor(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	logger := logging.FromContext(ctx)

	err = app.SignOut(ctx)
	middleware.ObserveAction("signout", outcome(err))
	if err != nil {
		logger.Warn("sign out incomplete", slog.Any("error", err))
	}

	h.Apps.Remove(logging.AppIDFromContext(ctx))
	sess.Values = make(map[interface{}]interface{})
	sess.Options.MaxAge = -1
	if err := sess.Save(r, w); err != nil {
		h.fail(w, r, err)
		return
	}
	logger.Info("browser session ended")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
