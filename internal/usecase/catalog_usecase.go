package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"

	"marketcore/internal/domain/entity"
	"marketcore/internal/domain/repository"
	"marketcore/internal/domain/service"
	"marketcore/pkg/errors"
)

// DefaultFeaturedLimit is how many featured products the home page shows.
const DefaultFeaturedLimit = 6

// CatalogUseCase is the catalog store: read access to the products plus the
// filter parameters the listing is derived from.
type CatalogUseCase struct {
	catalogRepo repository.CatalogRepository

	mu    sync.RWMutex
	state entity.FilterState
}

func NewCatalogUseCase(catalogRepo repository.CatalogRepository) *CatalogUseCase {
	return &CatalogUseCase{
		catalogRepo: catalogRepo,
		state:       entity.FilterState{Sort: entity.SortNewest},
	}
}

func (uc *CatalogUseCase) SetQuery(query string) {
	uc.mu.Lock()
	uc.state.Query = query
	uc.mu.Unlock()
}

func (uc *CatalogUseCase) SetCategory(category string) {
	uc.mu.Lock()
	uc.state.Category = category
	uc.mu.Unlock()
}

func (uc *CatalogUseCase) SetSort(key entity.SortKey) {
	uc.mu.Lock()
	uc.state.Sort = key
	uc.mu.Unlock()
}

// State returns a copy of the current filter parameters.
func (uc *CatalogUseCase) State() entity.FilterState {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.state
}

// Products returns the full catalog in source order.
func (uc *CatalogUseCase) Products(ctx context.Context) ([]*entity.Product, error) {
	return uc.catalogRepo.List(ctx)
}

// View derives the listing from the store's current filter state.
func (uc *CatalogUseCase) View(ctx context.Context) ([]*entity.Product, error) {
	return uc.ViewWith(ctx, uc.State())
}

// ViewWith derives the listing for an explicit filter state, leaving the
// store's own state untouched.
func (uc *CatalogUseCase) ViewWith(ctx context.Context, state entity.FilterState) ([]*entity.Product, error) {
	products, err := uc.catalogRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return service.ComputeViewState(products, state), nil
}

func (uc *CatalogUseCase) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.BadRequest("Product id is required", nil)
	}
	return uc.catalogRepo.GetByID(ctx, id)
}

// Featured returns up to limit featured products in catalog order. A
// non-positive limit returns all of them.
func (uc *CatalogUseCase) Featured(ctx context.Context, limit int) ([]*entity.Product, error) {
	products, err := uc.catalogRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	featured := make([]*entity.Product, 0)
	for _, p := range products {
		if p.Featured {
			featured = append(featured, p)
		}
		if limit > 0 && len(featured) == limit {
			break
		}
	}
	return featured, nil
}

// Categories lists the distinct categories in the catalog, sorted. Names
// differing only in case are reported once, spelled as first seen.
func (uc *CatalogUseCase) Categories(ctx context.Context) ([]string, error) {
	products, err := uc.catalogRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	categories := make([]string, 0)
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		key := strings.ToLower(p.Category)
		if seen[key] {
			continue
		}
		seen[key] = true
		categories = append(categories, p.Category)
	}
	sort.Strings(categories)
	return categories, nil
}
