package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/AljAtok/spa-back-end-sub001/internal/repository"
	"github.com/AljAtok/spa-back-end-sub001/pkg/jwt"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrAccessKeyNotFound   = errors.New("access key not found")
	ErrAccessKeyNotGranted = errors.New("no active permission under access key")
)

// AccessKeyService re-scopes which permissions apply to a session without a
// fresh login. Switching only re-selects among scopes the user already
// holds grants under; it never grants anything new.
type AccessKeyService struct {
	userRepo       repository.UserRepository
	sessionRepo    repository.SessionRepository
	catalogRepo    repository.CatalogRepository
	permissionRepo repository.PermissionRepository
	tokenService   *jwt.TokenService
}

type ChangeAccessKeyResult struct {
	AccessKeyID int64 `json:"access_key_id"`
	// AccessToken is set when a usable session was supplied: a replacement
	// token carrying the new key claim, so the caller keeps the session. The
	// refresh token is left untouched.
	AccessToken *string    `json:"access_token,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

func NewAccessKeyService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	catalogRepo repository.CatalogRepository,
	permissionRepo repository.PermissionRepository,
	tokenService *jwt.TokenService,
) *AccessKeyService {
	return &AccessKeyService{
		userRepo:       userRepo,
		sessionRepo:    sessionRepo,
		catalogRepo:    catalogRepo,
		permissionRepo: permissionRepo,
		tokenService:   tokenService,
	}
}

// ChangeAccessKey validates the three preconditions in order, each with its
// own failure, then persists the user's current key. When sessionID names a
// usable session of the target user, a replacement access token is minted
// in-place; otherwise the caller must re-authenticate to pick up the scope.
func (s *AccessKeyService) ChangeAccessKey(ctx context.Context, userID, newAccessKeyID, actingUserID int64, sessionID *uuid.UUID) (*ChangeAccessKeyResult, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if _, err := s.catalogRepo.GetAccessKeyByID(ctx, newAccessKeyID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccessKeyNotFound
		}
		return nil, err
	}

	granted, err := s.permissionRepo.HasGrantForAccessKey(ctx, userID, newAccessKeyID)
	if err != nil {
		return nil, err
	}
	if !granted {
		return nil, ErrAccessKeyNotGranted
	}

	if err := s.userRepo.UpdateCurrentAccessKey(ctx, userID, newAccessKeyID); err != nil {
		return nil, err
	}

	log.Printf("[ACCESS_KEY] User %d switched to access key %d (acting user %d)", userID, newAccessKeyID, actingUserID)

	result := &ChangeAccessKeyResult{AccessKeyID: newAccessKeyID}

	if sessionID == nil || actingUserID != userID {
		return result, nil
	}

	session, err := s.sessionRepo.GetByID(ctx, *sessionID)
	if err != nil {
		// The switch itself already stuck; the caller just has to log in
		// again to see the new scope.
		if errors.Is(err, repository.ErrNotFound) {
			log.Printf("[ACCESS_KEY] No session %s for in-place re-issue", sessionID)
		} else {
			log.Printf("[ACCESS_KEY] Failed to load session %s for in-place re-issue: %v", sessionID, err)
		}
		return result, nil
	}
	if session.UserID != userID || !session.Usable() {
		log.Printf("[ACCESS_KEY] No usable session %s for in-place re-issue", sessionID)
		return result, nil
	}

	user.CurrentAccessKeyID = &newAccessKeyID
	accessToken, expiresAt, err := s.tokenService.GenerateAccessToken(user, &newAccessKeyID, session.ID)
	if err != nil {
		return nil, err
	}

	result.AccessToken = &accessToken
	result.ExpiresAt = &expiresAt
	return result, nil
}
