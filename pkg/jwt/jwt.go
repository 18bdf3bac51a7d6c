package jwt

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/AljAtok/spa-back-end-sub001/internal/domain"
)

var (
	ErrInvalidSigningMethod = errors.New("unexpected signing method")
	ErrInvalidToken         = errors.New("invalid token")
)

// refreshTokenBytes is the entropy of an opaque refresh token.
const refreshTokenBytes = 32

// TokenService mints short-lived signed access tokens and long-lived opaque
// refresh tokens. Refresh tokens are not signed structures: they are
// capabilities matched against the session store, so clearing the stored
// value revokes them immediately.
type TokenService struct {
	secret        []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	issuer        string
}

func NewTokenService(secret string, accessExpiry, refreshExpiry time.Duration, issuer string) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}

	return &TokenService{
		secret:        []byte(secret),
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
		issuer:        issuer,
	}, nil
}

// GenerateAccessToken signs an access token scoped to the session and the
// given access key. The key claim is the session's live scope; the user row
// only seeds it at login.
func (s *TokenService) GenerateAccessToken(user *domain.User, accessKeyID *int64, sessionID uuid.UUID) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.accessExpiry)
	sid := sessionID

	claims := domain.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   fmt.Sprintf("%d", user.ID),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
		UserID:      user.ID,
		Username:    user.Username,
		RoleID:      user.RoleID,
		StatusID:    user.StatusID,
		AccessKeyID: accessKeyID,
		SessionID:   &sid,
		TokenType:   "access",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

// GenerateTokenPair mints an access token plus a fresh opaque refresh token.
func (s *TokenService) GenerateTokenPair(user *domain.User, accessKeyID *int64, sessionID uuid.UUID) (*domain.TokenPair, error) {
	accessToken, expiresAt, err := s.GenerateAccessToken(user, accessKeyID, sessionID)
	if err != nil {
		return nil, err
	}

	refreshToken, err := NewRefreshToken()
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		TokenType:    "Bearer",
	}, nil
}

// ValidateToken parses and verifies a signed access token.
func (s *TokenService) ValidateToken(tokenString string) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSigningMethod
		}
		return s.secret, nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*domain.Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// RefreshExpiry returns the configured refresh token lifetime.
func (s *TokenService) RefreshExpiry() time.Duration {
	return s.refreshExpiry
}

// NewRefreshToken generates an opaque refresh token from secure entropy.
func NewRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashToken creates a SHA-256 hex digest of a token. Only the digest is
// stored; the raw token never touches the database.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
