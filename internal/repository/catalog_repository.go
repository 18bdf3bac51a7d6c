package repository

import (
	"context"

	"github.com/AljAtok/spa-back-end-sub001/internal/domain"
)

// CatalogRepository resolves the lookup tables the authorizer depends on.
type CatalogRepository interface {
	GetModuleByName(ctx context.Context, name string) (*domain.Module, error)
	GetActionByName(ctx context.Context, name string) (*domain.Action, error)
	GetAccessKeyByID(ctx context.Context, id int64) (*domain.AccessKey, error)
}
