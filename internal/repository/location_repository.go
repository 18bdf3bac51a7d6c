package repository

import (
	"context"

	"github.com/AljAtok/spa-back-end-sub001/internal/domain"
)

type LocationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Location, error)
	List(ctx context.Context) ([]*domain.Location, error)
	UpdateStatus(ctx context.Context, id, statusID int64) error
}
