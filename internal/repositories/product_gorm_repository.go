package repositories

import (
	"context"
	"encoding/json"
	"strings"

	"catalog/internal/models"

	"github.com/go-faster/errors"
	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// List retrieves products matching filter, newest first.
func (r *GORMProductRepository) List(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})

	if filter.PublishedOnly {
		query = query.Where("published = ?", true)
	}
	if filter.Brand != "" {
		query = query.Where(`LOWER(brand) LIKE ? ESCAPE '\'`, containsPattern(filter.Brand))
	}
	if filter.Tag != "" {
		cond, arg, err := r.tagCondition(filter.Tag)
		if err != nil {
			return nil, err
		}
		query = query.Where(cond, arg)
	}
	if filter.Query != "" {
		p := containsPattern(filter.Query)
		query = query.Where(
			`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(model) LIKE ? ESCAPE '\' OR LOWER(brand) LIKE ? ESCAPE '\')`,
			p, p, p, p,
		)
	}

	products := make([]models.Product, 0)
	if err := query.Order("id DESC").Find(&products).Error; err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return products, nil
}

// tagCondition builds a membership test on the JSON-encoded tags column.
func (r *GORMProductRepository) tagCondition(tag string) (string, interface{}, error) {
	if r.db.Dialector.Name() == "postgres" {
		doc, err := json.Marshal([]string{tag})
		if err != nil {
			return "", nil, errors.Wrap(err, "encode tag")
		}
		return "tags::jsonb @> ?::jsonb", string(doc), nil
	}
	return "EXISTS (SELECT 1 FROM json_each(products.tags) WHERE json_each.value = ?)", tag, nil
}

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrapf(ErrNotFound, "product %d", id)
		}
		return nil, errors.Wrapf(err, "get product %d", id)
	}
	return &product, nil
}

// Create inserts product; the store assigns its ID.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	product.ID = 0
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return errors.Wrap(err, "create product")
	}
	return nil
}

// Update writes the selected columns and reads the row back.
func (r *GORMProductRepository) Update(ctx context.Context, id int64, changes *models.Product, columns []string) (*models.Product, error) {
	if len(columns) == 0 {
		return nil, errors.New("update product: no columns selected")
	}

	var product *models.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Product{}).Where("id = ?", id).Select(columns).Updates(changes)
		if res.Error != nil {
			return errors.Wrapf(res.Error, "update product %d", id)
		}
		if res.RowsAffected == 0 {
			return errors.Wrapf(ErrNotFound, "product %d", id)
		}

		var updated models.Product
		if err := tx.First(&updated, "id = ?", id).Error; err != nil {
			return errors.Wrapf(err, "reload product %d", id)
		}
		product = &updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "delete product %d", id)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(ErrNotFound, "product %d", id)
	}
	return nil
}

// Probe selects at most one id from the products table.
func (r *GORMProductRepository) Probe(ctx context.Context) error {
	var ids []int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Limit(1).Pluck("id", &ids).Error; err != nil {
		return errors.Wrap(err, "query products")
	}
	return nil
}
