package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"marketcore/internal/domain/entity"
	"marketcore/internal/domain/repository"
	"marketcore/pkg/errors"
	"marketcore/pkg/logger"
)

const productsCollection = "products"

type firestoreCatalogRepository struct {
	client *firestore.Client
}

func NewFirestoreCatalogRepository(client *firestore.Client) repository.CatalogRepository {
	return &firestoreCatalogRepository{
		client: client,
	}
}

// List returns the whole catalog in creation order. Filtering and sorting
// for display happen in memory, so no composite indexes are needed.
func (r *firestoreCatalogRepository) List(ctx context.Context) ([]*entity.Product, error) {
	iter := r.client.Collection(productsCollection).OrderBy("createdAt", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	products := make([]*entity.Product, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate products", err)
		}

		var product entity.Product
		if err := doc.DataTo(&product); err != nil {
			logger.Warn("Skipping product %s: %v", doc.Ref.ID, err)
			continue
		}
		if product.ID == "" {
			product.ID = doc.Ref.ID
		}
		products = append(products, &product)
	}

	return products, nil
}

func (r *firestoreCatalogRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	doc, err := r.client.Collection(productsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Product", err)
		}
		return nil, errors.Internal("Failed to get product", err)
	}

	var product entity.Product
	if err := doc.DataTo(&product); err != nil {
		return nil, errors.Internal("Failed to parse product data", err)
	}
	if product.ID == "" {
		product.ID = doc.Ref.ID
	}

	return &product, nil
}
