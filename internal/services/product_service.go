package services

import (
	"context"

	"catalog/internal/models"
	"catalog/internal/repositories"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// ErrNoFieldsToUpdate is returned for an update that sets no field.
var ErrNoFieldsToUpdate = errors.New("no fields to update")

// ProductService handles business logic related to products.
type ProductService struct {
	repo   repositories.ProductRepository
	events EventPublisher
	lg     *zap.Logger
}

// NewProductService creates a new ProductService. events may be nil, in
// which case no change events are published.
func NewProductService(repo repositories.ProductRepository, events EventPublisher, lg *zap.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		events: events,
		lg:     lg,
	}
}

// ListPublishedProducts returns published products matching the filter, newest first.
func (s *ProductService) ListPublishedProducts(ctx context.Context, filter repositories.ProductFilter) ([]models.Product, error) {
	filter.PublishedOnly = true
	return s.repo.List(ctx, filter)
}

// ListAllProducts returns every product regardless of published state, newest first.
func (s *ProductService) ListAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.List(ctx, repositories.ProductFilter{})
}

// GetProductByID retrieves a single product by its ID, published or not.
func (s *ProductService) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateProduct stores a new product built from in and returns it with its assigned ID.
func (s *ProductService) CreateProduct(ctx context.Context, in *models.ProductCreate) (*models.Product, error) {
	product := in.Product()
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	s.publish(ctx, EventProductCreated, product.ID, product)
	return product, nil
}

// UpdateProduct applies the fields set in patch to the product with id.
// An empty patch fails with ErrNoFieldsToUpdate before the store is called.
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, patch *models.ProductUpdate) (*models.Product, error) {
	if patch.Empty() {
		return nil, ErrNoFieldsToUpdate
	}

	changes, columns := patch.Changes()
	product, err := s.repo.Update(ctx, id, changes, columns)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, EventProductUpdated, product.ID, product)
	return product, nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, EventProductDeleted, id, nil)
	return nil
}

// CheckStore probes the products table.
func (s *ProductService) CheckStore(ctx context.Context) error {
	return s.repo.Probe(ctx)
}

// publish sends a change event. Failures are logged and never returned.
func (s *ProductService) publish(ctx context.Context, event string, id int64, product *models.Product) {
	if s.events == nil {
		return
	}

	body, err := NewProductEvent(event, id, product).Marshal()
	if err != nil {
		s.lg.Warn("Failed to encode product event", zap.String("event", event), zap.Int64("product_id", id), zap.Error(err))
		return
	}
	if err := s.events.Publish(ctx, event, body); err != nil {
		s.lg.Warn("Failed to publish product event", zap.String("event", event), zap.Int64("product_id", id), zap.Error(err))
		return
	}
	s.lg.Debug("Published product event", zap.String("event", event), zap.Int64("product_id", id))
}
