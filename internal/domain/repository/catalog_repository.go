package repository

import (
	"context"

	"marketcore/internal/domain/entity"
)

// CatalogRepository supplies the read-only product catalog.
type CatalogRepository interface {
	List(ctx context.Context) ([]*entity.Product, error)
	GetByID(ctx context.Context, id string) (*entity.Product, error)
}
