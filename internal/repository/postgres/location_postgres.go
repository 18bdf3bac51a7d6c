package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/AljAtok/spa-back-end-sub001/internal/domain"
	"github.com/AljAtok/spa-back-end-sub001/internal/repository"
)

type locationRepository struct {
	db *sqlx.DB
}

// NewLocationRepository creates a new PostgreSQL location repository
func NewLocationRepository(db *sqlx.DB) repository.LocationRepository {
	return &locationRepository{db: db}
}

// GetByID retrieves a location by ID
func (r *locationRepository) GetByID(ctx context.Context, id int64) (*domain.Location, error) {
	query := `
		SELECT id, name, status_id, created_at, updated_at
		FROM locations
		WHERE id = $1`

	var location domain.Location
	err := r.db.GetContext(ctx, &location, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("location %d: %w", id, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get location by id: %w", err)
	}

	return &location, nil
}

// List retrieves all locations ordered by name
func (r *locationRepository) List(ctx context.Context) ([]*domain.Location, error) {
	query := `
		SELECT id, name, status_id, created_at, updated_at
		FROM locations
		ORDER BY name`

	var locations []*domain.Location
	err := r.db.SelectContext(ctx, &locations, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}

	return locations, nil
}

// UpdateStatus flips the location status
func (r *locationRepository) UpdateStatus(ctx context.Context, id, statusID int64) error {
	query := `
		UPDATE locations
		SET status_id = $1, updated_at = $2
		WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, statusID, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update location status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("location %d: %w", id, repository.ErrNotFound)
	}

	return nil
}
