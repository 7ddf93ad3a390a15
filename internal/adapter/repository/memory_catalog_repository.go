package repository

import (
	"context"
	"sync"

	"marketcore/internal/domain/entity"
	"marketcore/internal/domain/repository"
	"marketcore/pkg/errors"
)

type memoryCatalogRepository struct {
	mu       sync.RWMutex
	products []*entity.Product
	byID     map[string]*entity.Product
}

// NewMemoryCatalogRepository serves a fixed catalog from memory. Products
// keep the order they were given in.
func NewMemoryCatalogRepository(products []*entity.Product) repository.CatalogRepository {
	r := &memoryCatalogRepository{
		products: make([]*entity.Product, 0, len(products)),
		byID:     make(map[string]*entity.Product, len(products)),
	}
	for _, p := range products {
		if p == nil {
			continue
		}
		r.products = append(r.products, p)
		r.byID[p.ID] = p
	}
	return r
}

func (r *memoryCatalogRepository) List(ctx context.Context) ([]*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

func (r *memoryCatalogRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, errors.NotFound("Product", nil)
	}
	return p, nil
}
