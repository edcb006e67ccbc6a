package repositories

import (
	"context"

	"catalog/internal/models"

	"github.com/go-faster/errors"
)

var (
	// ErrNotFound is returned when no product matches the requested id.
	ErrNotFound = errors.New("product not found")
	// ErrStoreNotConfigured is returned while the store URL or key is missing.
	ErrStoreNotConfigured = errors.New("store not configured")
	// ErrStoreUnavailable is returned when the store client could not be created.
	ErrStoreUnavailable = errors.New("store client not initialized")
)

// ProductFilter narrows a product listing. Zero values disable a filter.
type ProductFilter struct {
	// Query is matched case-insensitively against title, description, model and brand.
	Query string
	// Brand is a case-insensitive substring of the brand.
	Brand string
	// Tag must be an exact member of the product's tags.
	Tag           string
	PublishedOnly bool
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	// Update writes only the named columns of changes to the product with id
	// and returns the stored result.
	Update(ctx context.Context, id int64, changes *models.Product, columns []string) (*models.Product, error)
	Delete(ctx context.Context, id int64) error
	// Probe runs a trivial query to check that the products table is reachable.
	Probe(ctx context.Context) error
}
