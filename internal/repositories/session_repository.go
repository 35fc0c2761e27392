package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dakka24/dakka/internal/auth"
	"github.com/dakka24/dakka/internal/db"
)

// PostgresSessionStore persists refresh tokens to PostgreSQL.
type PostgresSessionStore struct {
	pool db.Pool
}

// NewPostgresSessionStore constructs a session store backed by PostgreSQL.
func NewPostgresSessionStore(pool db.Pool) *PostgresSessionStore {
	return &PostgresSessionStore{pool: pool}
}

// Save stores or updates a session record.
func (s *PostgresSessionStore) Save(ctx context.Context, session auth.Session) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO sessions (refresh_token, user_id, email, expires_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (refresh_token)
        DO UPDATE SET user_id = EXCLUDED.user_id, email = EXCLUDED.email, expires_at = EXCLUDED.expires_at
    `, session.RefreshToken, session.UserID, session.Email, session.ExpiresAt.UTC())
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}

	return nil
}

// Find loads a session by its refresh token.
func (s *PostgresSessionStore) Find(ctx context.Context, refreshToken string) (auth.Session, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return auth.Session{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT refresh_token, user_id, email, expires_at
        FROM sessions
        WHERE refresh_token = $1
    `, refreshToken)

	var session auth.Session
	var expiresAt time.Time
	if err := row.Scan(&session.RefreshToken, &session.UserID, &session.Email, &expiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.Session{}, auth.ErrSessionNotFound
		}
		return auth.Session{}, fmt.Errorf("select session: %w", err)
	}

	session.ExpiresAt = expiresAt.UTC()
	return session, nil
}

// Delete removes a session by its refresh token.
func (s *PostgresSessionStore) Delete(ctx context.Context, refreshToken string) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        DELETE FROM sessions
        WHERE refresh_token = $1
    `, refreshToken)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return auth.ErrSessionNotFound
	}

	return nil
}

// PostgresAccountStore persists login credentials to PostgreSQL.
type PostgresAccountStore struct {
	pool db.Pool
}

// NewPostgresAccountStore constructs an account store backed by PostgreSQL.
func NewPostgresAccountStore(pool db.Pool) *PostgresAccountStore {
	return &PostgresAccountStore{pool: pool}
}

// CreateAccount inserts a credential row; a taken email yields auth.ErrEmailTaken.
func (s *PostgresAccountStore) CreateAccount(ctx context.Context, account auth.Account) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO auth_accounts (id, email, password_hash, created_at)
        VALUES ($1, $2, $3, $4)
    `, account.ID, account.Email, account.PasswordHash, account.CreatedAt)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return auth.ErrEmailTaken
		}
		return fmt.Errorf("insert account: %w", err)
	}

	return nil
}

// FindAccountByEmail fetches credentials by normalized email.
func (s *PostgresAccountStore) FindAccountByEmail(ctx context.Context, email string) (auth.Account, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return auth.Account{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, email, password_hash, created_at
        FROM auth_accounts
        WHERE email = $1
    `, email)

	var account auth.Account
	if err := row.Scan(&account.ID, &account.Email, &account.PasswordHash, &account.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.Account{}, auth.ErrAccountNotFound
		}
		return auth.Account{}, fmt.Errorf("select account by email: %w", err)
	}

	return account, nil
}

var _ auth.SessionStore = (*PostgresSessionStore)(nil)
var _ auth.AccountStore = (*PostgresAccountStore)(nil)
