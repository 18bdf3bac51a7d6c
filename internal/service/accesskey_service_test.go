package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AljAtok/spa-back-end-sub001/internal/domain"
	"github.com/AljAtok/spa-back-end-sub001/pkg/jwt"
)

func newTestAccessKeyService(t *testing.T, user *domain.User) (*AccessKeyService, *fakeUserRepo, *fakeSessionRepo, *jwt.TokenService) {
	t.Helper()
	tokenService, err := jwt.NewTokenService("test-secret-key-1234567890", 10*time.Minute, 7*24*time.Hour, "spa-back-end-test")
	require.NoError(t, err)

	userRepo := newFakeUserRepo(user)
	sessionRepo := newFakeSessionRepo()
	catalogRepo := newFakeCatalogRepo()
	catalogRepo.keys[1] = &domain.AccessKey{ID: 1, Name: "MAIN", StatusID: domain.StatusActive}
	catalogRepo.keys[2] = &domain.AccessKey{ID: 2, Name: "BRANCH", StatusID: domain.StatusActive}

	permRepo := &fakePermissionRepo{grants: []domain.PermissionGrant{
		grant(user.ID, 1, 1, 1, domain.StatusActive),
		grant(user.ID, 1, 1, 2, domain.StatusActive),
	}}

	svc := NewAccessKeyService(userRepo, sessionRepo, catalogRepo, permRepo, tokenService)
	return svc, userRepo, sessionRepo, tokenService
}

func TestChangeAccessKey_Success(t *testing.T) {
	user := testUser(t, 1, "alice", domain.StatusActive)
	svc, userRepo, _, _ := newTestAccessKeyService(t, user)

	result, err := svc.ChangeAccessKey(context.Background(), 1, 2, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.AccessKeyID)

	// No session supplied, so no in-place token.
	assert.Nil(t, result.AccessToken)
	assert.Nil(t, result.ExpiresAt)

	stored, err := userRepo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, stored.CurrentAccessKeyID)
	assert.Equal(t, int64(2), *stored.CurrentAccessKeyID)
}

func TestChangeAccessKey_PreconditionFailures(t *testing.T) {
	user := testUser(t, 1, "alice", domain.StatusActive)

	tests := []struct {
		name    string
		userID  int64
		keyID   int64
		wantErr error
	}{
		{"unknown user", 99, 2, ErrUserNotFound},
		{"unknown access key", 1, 99, ErrAccessKeyNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, userRepo, _, _ := newTestAccessKeyService(t, user)

			_, err := svc.ChangeAccessKey(context.Background(), tt.userID, tt.keyID, tt.userID, nil)
			assert.ErrorIs(t, err, tt.wantErr)

			// A failed switch leaves the stored key untouched.
			stored, err := userRepo.GetByID(context.Background(), 1)
			require.NoError(t, err)
			require.NotNil(t, stored.CurrentAccessKeyID)
			assert.Equal(t, int64(1), *stored.CurrentAccessKeyID)
		})
	}
}

func TestChangeAccessKey_NotGranted(t *testing.T) {
	user := testUser(t, 1, "alice", domain.StatusActive)
	svc, userRepo, _, _ := newTestAccessKeyService(t, user)

	// Key 3 exists in the catalog but the user holds no grant under it.
	svc.catalogRepo.(*fakeCatalogRepo).keys[3] = &domain.AccessKey{ID: 3, Name: "OTHER", StatusID: domain.StatusActive}

	_, err := svc.ChangeAccessKey(context.Background(), 1, 3, 1, nil)
	assert.ErrorIs(t, err, ErrAccessKeyNotGranted)

	stored, err := userRepo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), *stored.CurrentAccessKeyID)
}

func TestChangeAccessKey_ReissuesTokenForOwnSession(t *testing.T) {
	user := testUser(t, 1, "alice", domain.StatusActive)
	svc, _, sessionRepo, tokenService := newTestAccessKeyService(t, user)

	session := &domain.Session{
		ID:        uuid.New(),
		UserID:    1,
		LastLogin: time.Now(),
		Active:    true,
	}
	require.NoError(t, sessionRepo.Create(context.Background(), session))

	result, err := svc.ChangeAccessKey(context.Background(), 1, 2, 1, &session.ID)
	require.NoError(t, err)
	require.NotNil(t, result.AccessToken)
	require.NotNil(t, result.ExpiresAt)

	// The replacement token carries the new key and the same session.
	claims, err := tokenService.ValidateToken(*result.AccessToken)
	require.NoError(t, err)
	require.NotNil(t, claims.AccessKeyID)
	assert.Equal(t, int64(2), *claims.AccessKeyID)
	require.NotNil(t, claims.SessionID)
	assert.Equal(t, session.ID, *claims.SessionID)
}

type failingSessionRepo struct {
	*fakeSessionRepo
	getErr error
}

func (r *failingSessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.fakeSessionRepo.GetByID(ctx, id)
}

func TestChangeAccessKey_SessionLoadFailure(t *testing.T) {
	user := testUser(t, 1, "alice", domain.StatusActive)
	svc, userRepo, _, _ := newTestAccessKeyService(t, user)
	svc.sessionRepo = &failingSessionRepo{
		fakeSessionRepo: newFakeSessionRepo(),
		getErr:          errors.New("connection reset"),
	}

	// The switch is already persisted when the session load fails; the
	// caller gets the result without an in-place token, never an error.
	sessionID := uuid.New()
	result, err := svc.ChangeAccessKey(context.Background(), 1, 2, 1, &sessionID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.AccessKeyID)
	assert.Nil(t, result.AccessToken)

	stored, err := userRepo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), *stored.CurrentAccessKeyID)
}

func TestChangeAccessKey_NoReissueForForeignOrDeadSession(t *testing.T) {
	user := testUser(t, 1, "alice", domain.StatusActive)

	t.Run("session belongs to another user", func(t *testing.T) {
		svc, _, sessionRepo, _ := newTestAccessKeyService(t, user)
		session := &domain.Session{ID: uuid.New(), UserID: 2, LastLogin: time.Now(), Active: true}
		require.NoError(t, sessionRepo.Create(context.Background(), session))

		result, err := svc.ChangeAccessKey(context.Background(), 1, 2, 1, &session.ID)
		require.NoError(t, err)
		assert.Nil(t, result.AccessToken)
	})

	t.Run("session already retired", func(t *testing.T) {
		svc, _, sessionRepo, _ := newTestAccessKeyService(t, user)
		session := &domain.Session{ID: uuid.New(), UserID: 1, LastLogin: time.Now(), Active: true}
		require.NoError(t, sessionRepo.Create(context.Background(), session))
		require.NoError(t, sessionRepo.Logout(context.Background(), session.ID))

		result, err := svc.ChangeAccessKey(context.Background(), 1, 2, 1, &session.ID)
		require.NoError(t, err)
		assert.Nil(t, result.AccessToken)
	})

	t.Run("acting user differs from target", func(t *testing.T) {
		svc, _, sessionRepo, _ := newTestAccessKeyService(t, user)
		session := &domain.Session{ID: uuid.New(), UserID: 1, LastLogin: time.Now(), Active: true}
		require.NoError(t, sessionRepo.Create(context.Background(), session))

		result, err := svc.ChangeAccessKey(context.Background(), 1, 2, 42, &session.ID)
		require.NoError(t, err)
		assert.Nil(t, result.AccessToken)
	})
}
