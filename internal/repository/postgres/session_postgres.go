package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/AljAtok/spa-back-end-sub001/internal/domain"
	"github.com/AljAtok/spa-back-end-sub001/internal/repository"
)

type sessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new PostgreSQL session repository
func NewSessionRepository(db *sqlx.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

const sessionColumns = `id, user_id, refresh_token_hash, refresh_expires_at,
	   last_login, last_logout, logged_out, active,
	   device_info, ip_address, user_agent, created_at, updated_at`

// Create inserts a new session row. The refresh token starts null; initial
// issuance goes through UpdateRefreshToken like every later replacement.
func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	query := `
		INSERT INTO sessions (
			id, user_id, refresh_token_hash, refresh_expires_at,
			last_login, last_logout, logged_out, active,
			device_info, ip_address, user_agent, created_at, updated_at
		) VALUES (
			:id, :user_id, :refresh_token_hash, :refresh_expires_at,
			:last_login, :last_logout, :logged_out, :active,
			:device_info, :ip_address, :user_agent, :created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, session)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// GetByID retrieves a session by its ID
func (r *sessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE id = $1`

	var session domain.Session
	err := r.db.GetContext(ctx, &session, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session %s: %w", id, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get session by id: %w", err)
	}

	return &session, nil
}

// GetByRefreshToken retrieves a session by its refresh token hash. Rows whose
// stored token was cleared on logout can never match.
func (r *sessionRepository) GetByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE refresh_token_hash = $1`

	var session domain.Session
	err := r.db.GetContext(ctx, &session, query, tokenHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session by refresh token: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get session by refresh token: %w", err)
	}

	return &session, nil
}

// ListActive retrieves all usable sessions for a user, most recent login first
func (r *sessionRepository) ListActive(ctx context.Context, userID int64) ([]*domain.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE user_id = $1 AND active = TRUE AND logged_out = FALSE
		ORDER BY last_login DESC`

	var sessions []*domain.Session
	err := r.db.SelectContext(ctx, &sessions, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active sessions: %w", err)
	}

	return sessions, nil
}

// UpdateRefreshToken unconditionally overwrites the stored refresh token
func (r *sessionRepository) UpdateRefreshToken(ctx context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error {
	query := `
		UPDATE sessions
		SET refresh_token_hash = $1, refresh_expires_at = $2, updated_at = $3
		WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, tokenHash, expiresAt, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("session %s: %w", id, repository.ErrNotFound)
	}

	return nil
}

// RotateRefreshToken is a conditional update: it succeeds only if the stored
// token still equals the one presented. Two concurrent refreshes with the same
// stale token therefore cannot both succeed.
func (r *sessionRepository) RotateRefreshToken(ctx context.Context, id uuid.UUID, oldHash, newHash string, expiresAt time.Time) error {
	query := `
		UPDATE sessions
		SET refresh_token_hash = $1, refresh_expires_at = $2, updated_at = $3
		WHERE id = $4 AND refresh_token_hash = $5
		  AND active = TRUE AND logged_out = FALSE`

	result, err := r.db.ExecContext(ctx, query, newHash, expiresAt, time.Now(), id, oldHash)
	if err != nil {
		return fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrRotationConflict
	}

	return nil
}

// Logout retires the session. Retirement is a status transition, not a
// delete, so the row stays behind as audit history.
func (r *sessionRepository) Logout(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	query := `
		UPDATE sessions
		SET logged_out = TRUE, active = FALSE, last_logout = $1,
			refresh_token_hash = NULL, refresh_expires_at = NULL, updated_at = $1
		WHERE id = $2`

	_, err := r.db.ExecContext(ctx, query, now, id)
	if err != nil {
		return fmt.Errorf("failed to logout session: %w", err)
	}

	return nil
}

// LogoutAll retires every usable session of the user in one transaction.
func (r *sessionRepository) LogoutAll(ctx context.Context, userID int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin logout-all transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now()
	query := `
		UPDATE sessions
		SET logged_out = TRUE, active = FALSE, last_logout = $1,
			refresh_token_hash = NULL, refresh_expires_at = NULL, updated_at = $1
		WHERE user_id = $2 AND active = TRUE AND logged_out = FALSE`

	if _, err := tx.ExecContext(ctx, query, now, userID); err != nil {
		return fmt.Errorf("failed to logout all sessions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit logout-all transaction: %w", err)
	}

	return nil
}
