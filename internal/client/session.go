package client

import "github.com/dakka24/dakka/internal/models"

// Session is the client's view of who is signed in. It is owned by an App and
// only touched while the App's lock is held.
type Session struct {
	identity *models.Identity
	tokens   models.SessionTokens
	profile  *models.User
}

// Establish records a fresh authenticated session and forgets any stale profile.
func (s *Session) Establish(auth models.AuthSession) {
	identity := auth.Identity
	s.identity = &identity
	s.tokens = auth.Tokens
	s.profile = nil
}

// SetProfile caches the signed-in user's profile row.
func (s *Session) SetProfile(user models.User) {
	s.profile = &user
}

// Clear returns the session to the signed-out state.
func (s *Session) Clear() {
	*s = Session{}
}

// SignedIn reports whether an identity is present.
func (s *Session) SignedIn() bool {
	return s.identity != nil
}

// Identity returns the current principal.
func (s *Session) Identity() (models.Identity, bool) {
	if s.identity == nil {
		return models.Identity{}, false
	}
	return *s.identity, true
}

// Tokens returns the bearer tokens of the current session, zero when signed out.
func (s *Session) Tokens() models.SessionTokens {
	return s.tokens
}

// Profile returns the cached profile. It can be absent for a signed-in user
// whose profile row was never written.
func (s *Session) Profile() (models.User, bool) {
	if s.profile == nil {
		return models.User{}, false
	}
	return *s.profile, true
}
