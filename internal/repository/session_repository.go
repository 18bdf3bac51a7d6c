package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/AljAtok/spa-back-end-sub001/internal/domain"
)

// ErrRotationConflict is returned by RotateRefreshToken when the stored token
// hash no longer matches the presented one: a concurrent refresh already
// rotated it. The losing caller must be rejected, never issued a second pair.
var ErrRotationConflict = errors.New("refresh token already rotated")

type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	// GetByRefreshToken matches only rows whose stored hash is non-null.
	GetByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error)
	// ListActive returns usable sessions ordered most-recent-login first.
	ListActive(ctx context.Context, userID int64) ([]*domain.Session, error)
	// UpdateRefreshToken unconditionally overwrites the stored token; used for
	// initial issuance after Create and by the access-key re-issue path.
	UpdateRefreshToken(ctx context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error
	// RotateRefreshToken replaces the stored token only if it still equals
	// oldHash; returns ErrRotationConflict otherwise.
	RotateRefreshToken(ctx context.Context, id uuid.UUID, oldHash, newHash string, expiresAt time.Time) error
	// Logout retires the session: logged_out, last_logout = now, token cleared.
	// Idempotent.
	Logout(ctx context.Context, id uuid.UUID) error
	// LogoutAll retires every usable session of the user in one transaction.
	LogoutAll(ctx context.Context, userID int64) error
}
