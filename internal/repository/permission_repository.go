package repository

import (
	"context"
)

type PermissionRepository interface {
	// HasEffectiveGrant reports whether an active grant row exists for the
	// (user, module, action) tuple. A nil accessKeyID skips the access-key
	// filter; a non-nil one constrains the lookup to that key.
	HasEffectiveGrant(ctx context.Context, userID, moduleID, actionID int64, accessKeyID *int64) (bool, error)
	// HasGrantForAccessKey reports whether the user holds at least one active
	// grant scoped to the access key, regardless of module or action.
	HasGrantForAccessKey(ctx context.Context, userID, accessKeyID int64) (bool, error)
}
