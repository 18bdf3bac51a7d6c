package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AljAtok/spa-back-end-sub001/internal/domain"
	"github.com/AljAtok/spa-back-end-sub001/internal/repository"
)

// In-memory repository fakes backing the service tests.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[int64]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[int64]*domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, repository.ErrNotFound)
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByIdentifier(_ context.Context, identifier string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == identifier || (user.Email != nil && *user.Email == identifier) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", identifier, repository.ErrNotFound)
}

func (r *fakeUserRepo) UpdateCurrentAccessKey(_ context.Context, userID, accessKeyID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return fmt.Errorf("user %d: %w", userID, repository.ErrNotFound)
	}
	key := accessKeyID
	user.CurrentAccessKeyID = &key
	return nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*domain.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]*domain.Session)}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *session
	r.sessions[session.ID] = &clone
	return nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, repository.ErrNotFound)
	}
	clone := *session
	return &clone, nil
}

func (r *fakeSessionRepo) GetByRefreshToken(_ context.Context, tokenHash string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, session := range r.sessions {
		if session.RefreshTokenHash != nil && *session.RefreshTokenHash == tokenHash {
			clone := *session
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("session by refresh token: %w", repository.ErrNotFound)
}

func (r *fakeSessionRepo) ListActive(_ context.Context, userID int64) ([]*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*domain.Session
	for _, session := range r.sessions {
		if session.UserID == userID && session.Active && !session.LoggedOut {
			clone := *session
			result = append(result, &clone)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].LastLogin.After(result[j].LastLogin)
	})
	return result, nil
}

func (r *fakeSessionRepo) UpdateRefreshToken(_ context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return fmt.Errorf("session %s: %w", id, repository.ErrNotFound)
	}
	session.RefreshTokenHash = &tokenHash
	session.RefreshExpiresAt = &expiresAt
	return nil
}

func (r *fakeSessionRepo) RotateRefreshToken(_ context.Context, id uuid.UUID, oldHash, newHash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok || session.RefreshTokenHash == nil || *session.RefreshTokenHash != oldHash || !session.Active || session.LoggedOut {
		return repository.ErrRotationConflict
	}
	session.RefreshTokenHash = &newHash
	session.RefreshExpiresAt = &expiresAt
	return nil
}

func (r *fakeSessionRepo) Logout(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil
	}
	now := time.Now()
	session.LoggedOut = true
	session.Active = false
	session.LastLogout = &now
	session.RefreshTokenHash = nil
	session.RefreshExpiresAt = nil
	return nil
}

func (r *fakeSessionRepo) LogoutAll(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, session := range r.sessions {
		if session.UserID == userID && session.Active && !session.LoggedOut {
			session.LoggedOut = true
			session.Active = false
			session.LastLogout = &now
			session.RefreshTokenHash = nil
			session.RefreshExpiresAt = nil
		}
	}
	return nil
}

// expireRefreshToken backdates the stored expiry for expiry tests.
func (r *fakeSessionRepo) expireRefreshToken(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session, ok := r.sessions[id]; ok {
		past := time.Now().Add(-time.Hour)
		session.RefreshExpiresAt = &past
	}
}

type fakeCatalogRepo struct {
	modules map[string]int64
	actions map[string]int64
	keys    map[int64]*domain.AccessKey
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		modules: map[string]int64{"LOCATIONS": 1, "USERS": 2},
		actions: map[string]int64{"VIEW": 1, "ADD": 2, "EDIT": 3, "ACTIVATE": 4, "DEACTIVATE": 5},
		keys:    make(map[int64]*domain.AccessKey),
	}
}

func (r *fakeCatalogRepo) GetModuleByName(_ context.Context, name string) (*domain.Module, error) {
	id, ok := r.modules[name]
	if !ok {
		return nil, fmt.Errorf("module %q: %w", name, repository.ErrNotFound)
	}
	return &domain.Module{ID: id, Name: name}, nil
}

func (r *fakeCatalogRepo) GetActionByName(_ context.Context, name string) (*domain.Action, error) {
	id, ok := r.actions[name]
	if !ok {
		return nil, fmt.Errorf("action %q: %w", name, repository.ErrNotFound)
	}
	return &domain.Action{ID: id, Name: name}, nil
}

func (r *fakeCatalogRepo) GetAccessKeyByID(_ context.Context, id int64) (*domain.AccessKey, error) {
	key, ok := r.keys[id]
	if !ok {
		return nil, fmt.Errorf("access key %d: %w", id, repository.ErrNotFound)
	}
	return key, nil
}

type fakePermissionRepo struct {
	grants []domain.PermissionGrant
	err    error
}

func (r *fakePermissionRepo) HasEffectiveGrant(_ context.Context, userID, moduleID, actionID int64, accessKeyID *int64) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	for _, g := range r.grants {
		if g.UserID != userID || g.ModuleID != moduleID || g.ActionID != actionID || g.StatusID != domain.StatusActive {
			continue
		}
		if accessKeyID != nil && g.AccessKeyID != *accessKeyID {
			continue
		}
		return true, nil
	}
	return false, nil
}

func (r *fakePermissionRepo) HasGrantForAccessKey(_ context.Context, userID, accessKeyID int64) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	for _, g := range r.grants {
		if g.UserID == userID && g.AccessKeyID == accessKeyID && g.StatusID == domain.StatusActive {
			return true, nil
		}
	}
	return false, nil
}

type fakeBlacklist struct {
	mu     sync.Mutex
	tokens map[string]time.Time
	users  map[string]time.Time
}

func newFakeBlacklist() *fakeBlacklist {
	return &fakeBlacklist{
		tokens: make(map[string]time.Time),
		users:  make(map[string]time.Time),
	}
}

func (b *fakeBlacklist) AddAccessToken(_ context.Context, token string, expiresAt time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens[token] = expiresAt
	return nil
}

func (b *fakeBlacklist) BlacklistUser(_ context.Context, userID string, _ time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users[userID] = time.Now()
	return nil
}

type fakeStatusReader struct {
	statuses map[int64]int64
}

func (r *fakeStatusReader) ResourceStatus(_ context.Context, id int64) (int64, error) {
	status, ok := r.statuses[id]
	if !ok {
		return 0, ErrLocationNotFound
	}
	return status, nil
}
