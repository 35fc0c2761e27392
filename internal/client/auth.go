package client

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dakka24/dakka/internal/logging"
	"github.com/dakka24/dakka/internal/models"
)

// AuthForm is what the auth overlay submits. Username is only used on sign up.
type AuthForm struct {
	Email    string
	Password string
	Username string
}

// AuthMode returns what the auth overlay currently submits.
func (a *App) AuthMode() AuthMode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.authMode
}

// ToggleAuthMode flips the auth overlay between sign in and sign up.
func (a *App) ToggleAuthMode() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.authMode == AuthSignIn {
		a.authMode = AuthSignUp
	} else {
		a.authMode = AuthSignIn
	}
}

// Authenticate submits the auth overlay in its current mode.
func (a *App) Authenticate(ctx context.Context, form AuthForm) error {
	if a.AuthMode() == AuthSignUp {
		return a.SignUp(ctx, form)
	}
	return a.SignIn(ctx, form)
}

// SignUp creates an account and its profile row, then loads the signed-in view.
func (a *App) SignUp(ctx context.Context, form AuthForm) error {
	ctx, done := a.begin(ctx, "signup")
	defer done()

	creds, err := a.credentials(ctx, form)
	if err != nil {
		return err
	}

	session, err := a.backend.Identity.SignUp(ctx, creds)
	if err != nil {
		return a.gatewayFailure(ctx, "sign up", "error.gateway", err)
	}

	username := strings.TrimSpace(form.Username)
	if username == "" {
		username = emailLocalPart(session.Identity.Email)
	}
	profile := models.User{ID: session.Identity.UserID, Username: username, Email: session.Identity.Email}
	if err := a.backend.Users.InsertProfile(ctx, profile); err != nil {
		// The account exists from here on; the user can still sign in.
		return a.gatewayFailure(ctx, "insert profile", "error.gateway", err)
	}

	logging.FromContext(ctx).Info("user signed up", slog.String("user_id", session.Identity.UserID))
	a.session.Establish(session)
	a.notify(NoticeInfo, a.t("notice.signup_ok"))
	a.overlays.Close(OverlayAuth)
	a.loadSignedIn(ctx)
	return nil
}

// SignIn establishes a session for existing credentials.
func (a *App) SignIn(ctx context.Context, form AuthForm) error {
	ctx, done := a.begin(ctx, "signin")
	defer done()

	creds, err := a.credentials(ctx, form)
	if err != nil {
		return err
	}

	session, err := a.backend.Identity.SignIn(ctx, creds)
	if err != nil {
		return a.gatewayFailure(ctx, "sign in", "error.gateway", err)
	}

	logging.FromContext(ctx).Info("user signed in", slog.String("user_id", session.Identity.UserID))
	a.session.Establish(session)
	a.overlays.Close(OverlayAuth)
	a.loadSignedIn(ctx)
	return nil
}

// SignOut ends the backend session and returns the app to its initial state.
// Hosts discard the app afterwards, as a page reload would.
func (a *App) SignOut(ctx context.Context) error {
	ctx, done := a.begin(ctx, "signout")
	defer done()

	var result error
	if tokens := a.session.Tokens(); !tokens.IsZero() {
		if err := a.backend.Identity.SignOut(ctx, tokens); err != nil {
			logging.FromContext(ctx).Warn("sign out failed", slog.Any("error", err))
			result = &GatewayError{Op: "sign out", Err: err}
		}
	}

	a.session.Clear()
	a.overlays.Reset()
	a.authMode = AuthSignIn
	a.videos.Reset()
	a.leaderboard.Reset()
	a.media = make(map[string]models.MediaItem)
	a.overlays.Open(OverlayAuth)
	return result
}

func (a *App) credentials(ctx context.Context, form AuthForm) (models.Credentials, error) {
	creds := models.Credentials{Email: strings.TrimSpace(form.Email), Password: form.Password}
	if creds.Email == "" || creds.Password == "" {
		return models.Credentials{}, a.violation(ctx, "guard.credentials")
	}
	return creds, nil
}

func emailLocalPart(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
