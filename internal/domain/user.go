package domain

import (
	"time"
)

type User struct {
	ID                 int64     `json:"id" db:"id"`
	Username           string    `json:"username" db:"username"`
	Email              *string   `json:"email,omitempty" db:"email"`
	PasswordHash       string    `json:"-" db:"password_hash"`
	RoleID             int64     `json:"role_id" db:"role_id"`
	StatusID           int64     `json:"status_id" db:"status_id"`
	CurrentAccessKeyID *int64    `json:"current_access_key_id" db:"current_access_key_id"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// Active reports whether the account may authenticate or be authorized.
func (u *User) Active() bool {
	return u.StatusID == StatusActive
}
