package domain

import (
	"time"
)

// Location is the representative status-bearing resource gated by the
// permission engine, including the toggle-status path where the required
// action depends on the row's current status.
type Location struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	StatusID  int64     `json:"status_id" db:"status_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
