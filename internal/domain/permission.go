package domain

import (
	"time"
)

// Module is a gated area of the application (LOCATIONS, USERS, ...).
type Module struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Action is an operation within a module (VIEW, EDIT, ACTIVATE, ...).
type Action struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// AccessKey is a scoping tag partitioning permissions, akin to a
// business-unit selector. Lifecycle is managed externally.
type AccessKey struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	StatusID  int64     `json:"status_id" db:"status_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// PermissionGrant is the authorization fact table row: the stored fact that a
// user may perform an action on a module while scoped to an access key.
// Effective only while StatusID is active; historical rows with other statuses
// may coexist for the same tuple.
type PermissionGrant struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"user_id" db:"user_id"`
	RoleID      int64     `json:"role_id" db:"role_id"`
	ModuleID    int64     `json:"module_id" db:"module_id"`
	ActionID    int64     `json:"action_id" db:"action_id"`
	AccessKeyID int64     `json:"access_key_id" db:"access_key_id"`
	StatusID    int64     `json:"status_id" db:"status_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
