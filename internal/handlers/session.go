package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/sessions"

	"github.com/dakka24/dakka/internal/models"
)

// SessionCookieName names the browser session cookie.
const SessionCookieName = "dakka_session"

const (
	keyAppID          = "app_id"
	keyAccessToken    = "access_token"
	keyAccessExpires  = "access_expires"
	keyRefreshToken   = "refresh_token"
	keyRefreshExpires = "refresh_expires"
)

// NewCookieStore returns the cookie-backed session store.
func NewCookieStore(secret string, maxAge time.Duration, secure bool) sessions.Store {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

func tokensFromSession(sess *sessions.Session) models.SessionTokens {
	var tokens models.SessionTokens
	tokens.AccessToken, _ = sess.Values[keyAccessToken].(string)
	tokens.RefreshToken, _ = sess.Values[keyRefreshToken].(string)
	if exp, ok := sess.Values[keyAccessExpires].(int64); ok {
		tokens.AccessExpiresAt = time.Unix(exp, 0).UTC()
	}
	if exp, ok := sess.Values[keyRefreshExpires].(int64); ok {
		tokens.RefreshExpiresAt = time.Unix(exp, 0).UTC()
	}
	return tokens
}

func storeTokens(sess *sessions.Session, tokens models.SessionTokens) {
	if tokens.IsZero() {
		delete(sess.Values, keyAccessToken)
		delete(sess.Values, keyAccessExpires)
		delete(sess.Values, keyRefreshToken)
		delete(sess.Values, keyRefreshExpires)
		return
	}
	sess.Values[keyAccessToken] = tokens.AccessToken
	sess.Values[keyAccessExpires] = tokens.AccessExpiresAt.Unix()
	sess.Values[keyRefreshToken] = tokens.RefreshToken
	sess.Values[keyRefreshExpires] = tokens.RefreshExpiresAt.Unix()
}
