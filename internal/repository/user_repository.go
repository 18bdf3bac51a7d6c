package repository

import (
	"context"

	"github.com/AljAtok/spa-back-end-sub001/internal/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	// GetByIdentifier matches either the unique username or the unique email.
	GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error)
	UpdateCurrentAccessKey(ctx context.Context, userID, accessKeyID int64) error
}
