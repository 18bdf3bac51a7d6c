package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AljAtok/spa-back-end-sub001/internal/domain"
)

func grant(userID, moduleID, actionID, accessKeyID, statusID int64) domain.PermissionGrant {
	return domain.PermissionGrant{
		UserID:      userID,
		RoleID:      1,
		ModuleID:    moduleID,
		ActionID:    actionID,
		AccessKeyID: accessKeyID,
		StatusID:    statusID,
	}
}

func keyPtr(id int64) *int64 { return &id }

func TestAuthorize_GrantMatrix(t *testing.T) {
	// User 1 may VIEW and ACTIVATE locations under key 1, and VIEW under
	// key 2. The EDIT row exists but is inactive.
	permRepo := &fakePermissionRepo{grants: []domain.PermissionGrant{
		grant(1, 1, 1, 1, domain.StatusActive),
		grant(1, 1, 4, 1, domain.StatusActive),
		grant(1, 1, 1, 2, domain.StatusActive),
		grant(1, 1, 3, 1, domain.StatusInactive),
	}}
	svc := NewPermissionService(newFakeCatalogRepo(), permRepo)

	tests := []struct {
		name      string
		module    string
		action    string
		accessKey *int64
		wantErr   error
	}{
		{"view under key 1", "LOCATIONS", "VIEW", keyPtr(1), nil},
		{"view under key 2", "LOCATIONS", "VIEW", keyPtr(2), nil},
		{"activate under key 1", "LOCATIONS", "ACTIVATE", keyPtr(1), nil},
		{"activate under key 2 denied", "LOCATIONS", "ACTIVATE", keyPtr(2), ErrPermissionDenied},
		{"inactive grant denied", "LOCATIONS", "EDIT", keyPtr(1), ErrPermissionDenied},
		{"no grant at all", "USERS", "VIEW", keyPtr(1), ErrPermissionDenied},
		{"no key skips the filter", "LOCATIONS", "ACTIVATE", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Authorize(context.Background(), 1, tt.module, tt.action, tt.accessKey)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestAuthorize_UnknownNames(t *testing.T) {
	svc := NewPermissionService(newFakeCatalogRepo(), &fakePermissionRepo{})

	err := svc.Authorize(context.Background(), 1, "PAYROLL", "VIEW", keyPtr(1))
	assert.ErrorIs(t, err, ErrUnknownModule)

	err = svc.Authorize(context.Background(), 1, "LOCATIONS", "DESTROY", keyPtr(1))
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestAuthorize_StoreErrorDenies(t *testing.T) {
	storeErr := errors.New("connection reset")
	svc := NewPermissionService(newFakeCatalogRepo(), &fakePermissionRepo{err: storeErr})

	err := svc.Authorize(context.Background(), 1, "LOCATIONS", "VIEW", keyPtr(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, ErrPermissionDenied)
}

func TestEvaluate_FixedRequirement(t *testing.T) {
	permRepo := &fakePermissionRepo{grants: []domain.PermissionGrant{
		grant(1, 1, 1, 1, domain.StatusActive),
	}}
	svc := NewPermissionService(newFakeCatalogRepo(), permRepo)

	err := svc.Evaluate(context.Background(), 1, Require("LOCATIONS", "VIEW"), 0, keyPtr(1))
	assert.NoError(t, err)

	err = svc.Evaluate(context.Background(), 1, Require("LOCATIONS", "ADD"), 0, keyPtr(1))
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestEvaluate_ToggleDerivesAction(t *testing.T) {
	// User 1 may DEACTIVATE but not ACTIVATE.
	permRepo := &fakePermissionRepo{grants: []domain.PermissionGrant{
		grant(1, 1, 5, 1, domain.StatusActive),
	}}
	svc := NewPermissionService(newFakeCatalogRepo(), permRepo)

	reader := &fakeStatusReader{statuses: map[int64]int64{
		10: domain.StatusActive,
		11: domain.StatusInactive,
	}}
	req := RequireToggle("LOCATIONS", reader)

	// Toggling an active resource demands DEACTIVATE, which is granted.
	assert.NoError(t, svc.Evaluate(context.Background(), 1, req, 10, keyPtr(1)))

	// Toggling an inactive resource demands ACTIVATE, which is not.
	err := svc.Evaluate(context.Background(), 1, req, 11, keyPtr(1))
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestEvaluate_ToggleMissingResource(t *testing.T) {
	svc := NewPermissionService(newFakeCatalogRepo(), &fakePermissionRepo{})
	req := RequireToggle("LOCATIONS", &fakeStatusReader{statuses: map[int64]int64{}})

	err := svc.Evaluate(context.Background(), 1, req, 99, keyPtr(1))
	assert.ErrorIs(t, err, ErrLocationNotFound)
}
