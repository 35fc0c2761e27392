package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dakka24/dakka/internal/models"
)

var (
	// ErrSessionNotFound indicates the provided refresh token does not map to an active session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrRefreshTokenExpired indicates the refresh token has expired and cannot be used.
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	// ErrInvalidCredentials is returned for unknown emails and wrong passwords alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountNotFound is returned by account stores for unknown emails.
	ErrAccountNotFound = errors.New("account not found")
	// ErrEmailTaken is returned when signing up with an email that already has an account.
	ErrEmailTaken = errors.New("email already registered")
)

// SessionStore persists issued refresh tokens so they can survive process restarts.
type SessionStore interface {
	Save(ctx context.Context, session Session) error
	Find(ctx context.Context, refreshToken string) (Session, error)
	Delete(ctx context.Context, refreshToken string) error
}

// AccountStore persists login credentials.
type AccountStore interface {
	CreateAccount(ctx context.Context, account Account) error
	FindAccountByEmail(ctx context.Context, email string) (Account, error)
}

// Session represents a refresh token issued to a user.
type Session struct {
	RefreshToken string
	UserID       string
	Email        string
	ExpiresAt    time.Time
}

// Account is a set of login credentials. PasswordHash is a bcrypt hash.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Config controls token lifetimes and signing.
type Config struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	SigningKey []byte
	BcryptCost int
}

// Manager is the identity provider: it verifies credentials and manages the
// lifecycle of issued tokens. Access tokens are HS256 JWTs; refresh tokens are
// opaque and persisted in the session store.
type Manager struct {
	accessTTL  time.Duration
	refreshTTL time.Duration
	signingKey []byte
	bcryptCost int

	accounts AccountStore
	store    SessionStore
	now      func() time.Time
}

// NewManager constructs a Manager backed by the provided stores.
func NewManager(cfg Config, accounts AccountStore, store SessionStore) *Manager {
	if accounts == nil || store == nil {
		panic("auth: account and session stores must not be nil")
	}
	if len(cfg.SigningKey) == 0 {
		panic("auth: signing key must not be empty")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &Manager{
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		signingKey: cfg.SigningKey,
		bcryptCost: cfg.BcryptCost,
		accounts:   accounts,
		store:      store,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithNowFunc allows tests to override the time source.
func (m *Manager) WithNowFunc(now func() time.Time) {
	m.now = now
}

// SignUp creates an account and opens a session for it.
func (m *Manager) SignUp(ctx context.Context, creds models.Credentials) (models.AuthSession, error) {
	email := normalizeEmail(creds.Email)
	if email == "" || creds.Password == "" {
		return models.AuthSession{}, ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(creds.Password), m.bcryptCost)
	if err != nil {
		return models.AuthSession{}, fmt.Errorf("hash password: %w", err)
	}

	account := Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hashed),
		CreatedAt:    m.now(),
	}
	if err := m.accounts.CreateAccount(ctx, account); err != nil {
		return models.AuthSession{}, err
	}

	return m.open(ctx, models.Identity{UserID: account.ID, Email: account.Email})
}

// SignIn verifies credentials and opens a session.
func (m *Manager) SignIn(ctx context.Context, creds models.Credentials) (models.AuthSession, error) {
	email := normalizeEmail(creds.Email)
	if email == "" || creds.Password == "" {
		return models.AuthSession{}, ErrInvalidCredentials
	}

	account, err := m.accounts.FindAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return models.AuthSession{}, ErrInvalidCredentials
		}
		return models.AuthSession{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(creds.Password)); err != nil {
		return models.AuthSession{}, ErrInvalidCredentials
	}

	return m.open(ctx, models.Identity{UserID: account.ID, Email: account.Email})
}

// CurrentSession resolves persisted tokens. A valid access token is accepted
// as is; otherwise the refresh token is rotated.
func (m *Manager) CurrentSession(ctx context.Context, tokens models.SessionTokens) (models.AuthSession, bool, error) {
	if tokens.IsZero() {
		return models.AuthSession{}, false, nil
	}

	if identity, err := m.verifyAccess(tokens.AccessToken); err == nil {
		return models.AuthSession{Identity: identity, Tokens: tokens}, true, nil
	}

	session, err := m.Refresh(ctx, tokens.RefreshToken)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrRefreshTokenExpired) {
			return models.AuthSession{}, false, nil
		}
		return models.AuthSession{}, false, err
	}
	return session, true, nil
}

// SignOut revokes the refresh token. Unknown tokens are not an error.
func (m *Manager) SignOut(ctx context.Context, tokens models.SessionTokens) error {
	if tokens.RefreshToken == "" {
		return nil
	}
	if err := m.store.Delete(ctx, tokens.RefreshToken); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return err
	}
	return nil
}

// Refresh exchanges a refresh token for a new session token pair.
func (m *Manager) Refresh(ctx context.Context, refreshToken string) (models.AuthSession, error) {
	if refreshToken == "" {
		return models.AuthSession{}, ErrSessionNotFound
	}

	session, err := m.store.Find(ctx, refreshToken)
	if err != nil {
		return models.AuthSession{}, err
	}

	if m.now().After(session.ExpiresAt) {
		_ = m.store.Delete(ctx, refreshToken)
		return models.AuthSession{}, ErrRefreshTokenExpired
	}

	if err := m.store.Delete(ctx, refreshToken); err != nil {
		return models.AuthSession{}, err
	}

	return m.open(ctx, models.Identity{UserID: session.UserID, Email: session.Email})
}

func (m *Manager) open(ctx context.Context, identity models.Identity) (models.AuthSession, error) {
	now := m.now()

	accessToken, err := m.signAccess(identity, now)
	if err != nil {
		return models.AuthSession{}, err
	}

	refreshToken, err := randomToken()
	if err != nil {
		return models.AuthSession{}, err
	}

	tokens := models.SessionTokens{
		AccessToken:      accessToken,
		AccessExpiresAt:  now.Add(m.accessTTL),
		RefreshToken:     refreshToken,
		RefreshExpiresAt: now.Add(m.refreshTTL),
	}

	if err := m.store.Save(ctx, Session{
		RefreshToken: refreshToken,
		UserID:       identity.UserID,
		Email:        identity.Email,
		ExpiresAt:    tokens.RefreshExpiresAt,
	}); err != nil {
		return models.AuthSession{}, err
	}

	return models.AuthSession{Identity: identity, Tokens: tokens}, nil
}

type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (m *Manager) signAccess(identity models.Identity, now time.Time) (string, error) {
	claims := accessClaims{
		Email: identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

func (m *Manager) verifyAccess(token string) (models.Identity, error) {
	if token == "" {
		return models.Identity{}, ErrSessionNotFound
	}

	var claims accessClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return m.signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil {
		return models.Identity{}, err
	}
	if !parsed.Valid || claims.Subject == "" {
		return models.Identity{}, ErrSessionNotFound
	}
	return models.Identity{UserID: claims.Subject, Email: claims.Email}, nil
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func randomToken() (string, error) {
	const size = 32
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
