package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/AljAtok/spa-back-end-sub001/internal/domain"
	"github.com/AljAtok/spa-back-end-sub001/internal/repository"
)

type permissionRepository struct {
	db *sqlx.DB
}

// NewPermissionRepository creates a new PostgreSQL permission repository
func NewPermissionRepository(db *sqlx.DB) repository.PermissionRepository {
	return &permissionRepository{db: db}
}

// HasEffectiveGrant checks for an active grant row matching the tuple. The
// access-key filter is applied only when a key is present in context.
func (r *permissionRepository) HasEffectiveGrant(ctx context.Context, userID, moduleID, actionID int64, accessKeyID *int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM user_permissions
			WHERE user_id = $1 AND module_id = $2 AND action_id = $3
			  AND status_id = $4
			  AND ($5::BIGINT IS NULL OR access_key_id = $5)
		)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, userID, moduleID, actionID, domain.StatusActive, accessKeyID)
	if err != nil {
		return false, fmt.Errorf("failed to check effective grant: %w", err)
	}

	return exists, nil
}

// HasGrantForAccessKey checks whether the user holds any active grant under
// the access key.
func (r *permissionRepository) HasGrantForAccessKey(ctx context.Context, userID, accessKeyID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM user_permissions
			WHERE user_id = $1 AND access_key_id = $2 AND status_id = $3
		)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, userID, accessKeyID, domain.StatusActive)
	if err != nil {
		return false, fmt.Errorf("failed to check access key grant: %w", err)
	}

	return exists, nil
}
