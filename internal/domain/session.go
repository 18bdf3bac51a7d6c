package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session represents one authenticated device/login instance. A user may hold
// any number of concurrent sessions; each is independently revocable.
type Session struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	UserID           int64      `json:"user_id" db:"user_id"`
	RefreshTokenHash *string    `json:"-" db:"refresh_token_hash"`
	RefreshExpiresAt *time.Time `json:"-" db:"refresh_expires_at"`
	LastLogin        time.Time  `json:"last_login" db:"last_login"`
	LastLogout       *time.Time `json:"last_logout,omitempty" db:"last_logout"`
	LoggedOut        bool       `json:"logged_out" db:"logged_out"`
	Active           bool       `json:"active" db:"active"`
	DeviceInfo       *string    `json:"device_info,omitempty" db:"device_info"`
	IPAddress        *string    `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent        *string    `json:"user_agent,omitempty" db:"user_agent"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// Usable reports whether the session may authorize requests or be refreshed.
func (s *Session) Usable() bool {
	return s.Active && !s.LoggedOut
}
