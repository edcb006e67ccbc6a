package repositories

import (
	"context"

	"catalog/internal/models"
)

// UnavailableProductRepository stands in for the store when it is not
// configured or could not be opened. Every call fails with the same error,
// so requests keep failing identically until the configuration is fixed.
type UnavailableProductRepository struct {
	err error
}

// NewUnavailableProductRepository returns a repository whose calls all fail with err.
func NewUnavailableProductRepository(err error) *UnavailableProductRepository {
	return &UnavailableProductRepository{err: err}
}

func (r *UnavailableProductRepository) List(context.Context, ProductFilter) ([]models.Product, error) {
	return nil, r.err
}

func (r *UnavailableProductRepository) GetByID(context.Context, int64) (*models.Product, error) {
	return nil, r.err
}

func (r *UnavailableProductRepository) Create(context.Context, *models.Product) error {
	return r.err
}

func (r *UnavailableProductRepository) Update(context.Context, int64, *models.Product, []string) (*models.Product, error) {
	return nil, r.err
}

func (r *UnavailableProductRepository) Delete(context.Context, int64) error {
	return r.err
}

func (r *UnavailableProductRepository) Probe(context.Context) error {
	return r.err
}
