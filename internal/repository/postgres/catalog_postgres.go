package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/AljAtok/spa-back-end-sub001/internal/domain"
	"github.com/AljAtok/spa-back-end-sub001/internal/repository"
)

type catalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository creates a new PostgreSQL catalog repository
func NewCatalogRepository(db *sqlx.DB) repository.CatalogRepository {
	return &catalogRepository{db: db}
}

// GetModuleByName resolves a module name to its row
func (r *catalogRepository) GetModuleByName(ctx context.Context, name string) (*domain.Module, error) {
	query := `SELECT id, name FROM modules WHERE name = $1`

	var module domain.Module
	err := r.db.GetContext(ctx, &module, query, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("module %q: %w", name, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get module by name: %w", err)
	}

	return &module, nil
}

// GetActionByName resolves an action name to its row
func (r *catalogRepository) GetActionByName(ctx context.Context, name string) (*domain.Action, error) {
	query := `SELECT id, name FROM actions WHERE name = $1`

	var action domain.Action
	err := r.db.GetContext(ctx, &action, query, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("action %q: %w", name, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get action by name: %w", err)
	}

	return &action, nil
}

// GetAccessKeyByID retrieves an access key by ID
func (r *catalogRepository) GetAccessKeyByID(ctx context.Context, id int64) (*domain.AccessKey, error) {
	query := `
		SELECT id, name, status_id, created_at, updated_at
		FROM access_keys
		WHERE id = $1`

	var key domain.AccessKey
	err := r.db.GetContext(ctx, &key, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("access key %d: %w", id, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get access key by id: %w", err)
	}

	return &key, nil
}
