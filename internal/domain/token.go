package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	TokenType    string    `json:"token_type"`
}

// Claims carried by signed access tokens. The access-key claim is the
// session's live scope at issuance time; the user row's current key is only
// the seed for the next login (the claim is authoritative per request).
type Claims struct {
	jwt.RegisteredClaims
	UserID      int64      `json:"user_id"`
	Username    string     `json:"username"`
	RoleID      int64      `json:"role_id"`
	StatusID    int64      `json:"status_id"`
	AccessKeyID *int64     `json:"current_access_key,omitempty"`
	SessionID   *uuid.UUID `json:"session_id,omitempty"`
	TokenType   string     `json:"type"`
}
