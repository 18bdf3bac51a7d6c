package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/AljAtok/spa-back-end-sub001/internal/config"
	"github.com/AljAtok/spa-back-end-sub001/internal/domain"
	"github.com/AljAtok/spa-back-end-sub001/internal/repository"
	"github.com/AljAtok/spa-back-end-sub001/pkg/email"
	"github.com/AljAtok/spa-back-end-sub001/pkg/hash"
	"github.com/AljAtok/spa-back-end-sub001/pkg/jwt"
)

// Custom errors
var (
	// ErrInvalidCredentials covers every credential rejection except the
	// inactive account, so a caller cannot probe which check failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is inactive")
	// ErrUnauthorized covers every refresh rejection: unknown token, expired
	// token, retired session, inactive user, lost rotation race.
	ErrUnauthorized    = errors.New("unauthorized")
	ErrSessionNotFound = errors.New("session not found")
)

// Blacklist revokes still-live access tokens after logout.
type Blacklist interface {
	AddAccessToken(ctx context.Context, token string, expiresAt time.Time) error
	BlacklistUser(ctx context.Context, userID string, ttl time.Duration) error
}

// AuthService orchestrates login, refresh, and logout over the session store
// and the token issuer.
type AuthService struct {
	userRepo       repository.UserRepository
	sessionRepo    repository.SessionRepository
	tokenService   *jwt.TokenService
	tokenBlacklist Blacklist
	emailService   email.EmailService
	cfg            *config.Config
}

type LoginRequest struct {
	// Identifier is the username or the email address.
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required,min=8"`
	DeviceInfo string `json:"device_info,omitempty" validate:"omitempty,max=255"`
}

type LoginResponse struct {
	Tokens  *domain.TokenPair `json:"tokens"`
	User    *UserDTO          `json:"user"`
	Session *SessionSummary   `json:"session"`
}

type RefreshResponse struct {
	Tokens  *domain.TokenPair `json:"tokens"`
	Session *SessionSummary   `json:"session"`
}

type UserDTO struct {
	ID                 int64   `json:"id"`
	Username           string  `json:"username"`
	Email              *string `json:"email,omitempty"`
	RoleID             int64   `json:"role_id"`
	CurrentAccessKeyID *int64  `json:"current_access_key_id"`
}

type SessionSummary struct {
	ID         uuid.UUID `json:"id"`
	LastLogin  time.Time `json:"last_login"`
	DeviceInfo *string   `json:"device_info,omitempty"`
	IPAddress  *string   `json:"ip_address,omitempty"`
	UserAgent  *string   `json:"user_agent,omitempty"`
	IsCurrent  bool      `json:"is_current,omitempty"`
}

func NewAuthService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	tokenService *jwt.TokenService,
	tokenBlacklist Blacklist,
	emailService email.EmailService,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:       userRepo,
		sessionRepo:    sessionRepo,
		tokenService:   tokenService,
		tokenBlacklist: tokenBlacklist,
		emailService:   emailService,
		cfg:            cfg,
	}
}

// Login verifies credentials and opens a new session for the device. Each
// login creates its own session row; concurrent sessions per user are the
// design goal, not a conflict.
func (s *AuthService) Login(ctx context.Context, req LoginRequest, ipAddress, userAgent string) (*LoginResponse, error) {
	user, err := s.userRepo.GetByIdentifier(ctx, req.Identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// Inactive accounts are reported distinctly for operator diagnostics;
	// every other rejection stays generic.
	if !user.Active() {
		log.Printf("[AUTH_SERVICE] Login rejected for inactive user %d", user.ID)
		return nil, ErrAccountInactive
	}

	valid, err := hash.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !valid {
		log.Printf("[AUTH_SERVICE] Failed login attempt for user %d", user.ID)
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	session := &domain.Session{
		ID:         uuid.New(),
		UserID:     user.ID,
		LastLogin:  now,
		LoggedOut:  false,
		Active:     true,
		DeviceInfo: optional(req.DeviceInfo),
		IPAddress:  optional(ipAddress),
		UserAgent:  optional(userAgent),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	// The user row's current access key seeds the new session's scope.
	tokens, err := s.issueTokens(ctx, user, user.CurrentAccessKeyID, session.ID)
	if err != nil {
		return nil, err
	}

	s.notifyLogin(user, req.DeviceInfo, ipAddress)

	return &LoginResponse{
		Tokens:  tokens,
		User:    userDTO(user),
		Session: sessionSummary(session, nil),
	}, nil
}

// RefreshToken rotates the token pair of the session holding the presented
// refresh token. Rotation is single-use: once the stored token is replaced,
// the old one can never succeed again, not even in a race.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	oldHash := jwt.HashToken(refreshToken)

	session, err := s.sessionRepo.GetByRefreshToken(ctx, oldHash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	if !session.Usable() {
		return nil, ErrUnauthorized
	}

	// Server-side expiry check happens before any rotation.
	if session.RefreshExpiresAt == nil || time.Now().After(*session.RefreshExpiresAt) {
		if err := s.sessionRepo.Logout(ctx, session.ID); err != nil {
			log.Printf("[AUTH_SERVICE] Failed to retire expired session %s: %v", session.ID, err)
		}
		return nil, ErrUnauthorized
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if !user.Active() {
		return nil, ErrUnauthorized
	}

	tokens, err := s.tokenService.GenerateTokenPair(user, user.CurrentAccessKeyID, session.ID)
	if err != nil {
		return nil, err
	}

	newHash := jwt.HashToken(tokens.RefreshToken)
	expiresAt := time.Now().Add(s.tokenService.RefreshExpiry())
	if err := s.sessionRepo.RotateRefreshToken(ctx, session.ID, oldHash, newHash, expiresAt); err != nil {
		if errors.Is(err, repository.ErrRotationConflict) {
			// A concurrent refresh won the race; this caller is the loser and
			// must retry from scratch.
			log.Printf("[AUTH_SERVICE] Refresh rotation conflict on session %s", session.ID)
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	return &RefreshResponse{
		Tokens:  tokens,
		Session: sessionSummary(session, nil),
	}, nil
}

// Logout retires the session named in the token's session claim. Tokens that
// predate session-scoping carry no session claim and retire every session of
// the user instead.
func (s *AuthService) Logout(ctx context.Context, claims *domain.Claims, accessToken string) error {
	if claims.SessionID == nil {
		return s.LogoutAll(ctx, claims.UserID)
	}

	if err := s.sessionRepo.Logout(ctx, *claims.SessionID); err != nil {
		return fmt.Errorf("failed to logout session: %w", err)
	}

	s.revokeAccessToken(ctx, claims, accessToken)
	return nil
}

// LogoutAll retires every active session of the user in one batch. A
// user-level blacklist marker catches the access tokens those sessions had
// already been issued.
func (s *AuthService) LogoutAll(ctx context.Context, userID int64) error {
	if err := s.sessionRepo.LogoutAll(ctx, userID); err != nil {
		return fmt.Errorf("failed to logout all sessions: %w", err)
	}

	if s.tokenBlacklist != nil {
		ttl := s.cfg.JWT.AccessTokenExpiry + time.Minute
		if err := s.tokenBlacklist.BlacklistUser(ctx, fmt.Sprintf("%d", userID), ttl); err != nil {
			log.Printf("[AUTH_SERVICE] Failed to blacklist user %d tokens: %v", userID, err)
		}
	}

	return nil
}

// LogoutSession retires one named session, but only if it belongs to the
// caller.
func (s *AuthService) LogoutSession(ctx context.Context, userID int64, sessionID uuid.UUID) error {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionNotFound
		}
		return err
	}

	// Foreign sessions look identical to missing ones; ownership is not
	// disclosed across users.
	if session.UserID != userID {
		return ErrSessionNotFound
	}

	if err := s.sessionRepo.Logout(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to logout session: %w", err)
	}

	return nil
}

// ListSessions returns the caller's usable sessions, most recent login first.
func (s *AuthService) ListSessions(ctx context.Context, userID int64, currentSessionID *uuid.UUID) ([]*SessionSummary, error) {
	sessions, err := s.sessionRepo.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]*SessionSummary, len(sessions))
	for i, session := range sessions {
		summaries[i] = sessionSummary(session, currentSessionID)
	}

	return summaries, nil
}

// issueTokens mints a pair and persists the refresh token on the session row.
// Create leaves the stored token null; initial issuance flows through the
// same overwrite used by every later replacement.
func (s *AuthService) issueTokens(ctx context.Context, user *domain.User, accessKeyID *int64, sessionID uuid.UUID) (*domain.TokenPair, error) {
	tokens, err := s.tokenService.GenerateTokenPair(user, accessKeyID, sessionID)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(s.tokenService.RefreshExpiry())
	if err := s.sessionRepo.UpdateRefreshToken(ctx, sessionID, jwt.HashToken(tokens.RefreshToken), expiresAt); err != nil {
		return nil, err
	}

	return tokens, nil
}

func (s *AuthService) revokeAccessToken(ctx context.Context, claims *domain.Claims, accessToken string) {
	if s.tokenBlacklist == nil || accessToken == "" || claims.ExpiresAt == nil {
		return
	}
	if err := s.tokenBlacklist.AddAccessToken(ctx, accessToken, claims.ExpiresAt.Time); err != nil {
		// The session is already retired; blacklist failure only widens the
		// window to the token's natural expiry.
		log.Printf("[AUTH_SERVICE] Failed to blacklist access token: %v", err)
	}
}

func (s *AuthService) notifyLogin(user *domain.User, deviceInfo, ipAddress string) {
	if s.emailService == nil || user.Email == nil {
		return
	}
	go func() {
		if err := s.emailService.SendLoginAlert(*user.Email, user.Username, deviceInfo, ipAddress); err != nil {
			log.Printf("[AUTH_SERVICE] Login alert for user %d failed: %v", user.ID, err)
		}
	}()
}

func userDTO(user *domain.User) *UserDTO {
	return &UserDTO{
		ID:                 user.ID,
		Username:           user.Username,
		Email:              user.Email,
		RoleID:             user.RoleID,
		CurrentAccessKeyID: user.CurrentAccessKeyID,
	}
}

func sessionSummary(session *domain.Session, currentSessionID *uuid.UUID) *SessionSummary {
	return &SessionSummary{
		ID:         session.ID,
		LastLogin:  session.LastLogin,
		DeviceInfo: session.DeviceInfo,
		IPAddress:  session.IPAddress,
		UserAgent:  session.UserAgent,
		IsCurrent:  currentSessionID != nil && session.ID == *currentSessionID,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
