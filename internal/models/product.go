package models

// LaptopSpec holds the optional hardware details of a product.
type LaptopSpec struct {
	CPU            *string  `json:"cpu,omitempty"`
	GPU            *string  `json:"gpu,omitempty"`
	RAMGB          *int     `json:"ram_gb,omitempty" validate:"omitempty,min=1"`
	StorageGB      *int     `json:"storage_gb,omitempty" validate:"omitempty,min=1"`
	StorageType    *string  `json:"storage_type,omitempty"` // HDD, SSD, NVMe
	ScreenSizeInch *float64 `json:"screen_size_inch,omitempty" validate:"omitempty,gte=10"`
	Resolution     *string  `json:"resolution,omitempty"`
	RefreshRateHz  *int     `json:"refresh_rate_hz,omitempty" validate:"omitempty,min=30"`
	BatteryWh      *float64 `json:"battery_wh,omitempty" validate:"omitempty,gte=1"`
	WeightKg       *float64 `json:"weight_kg,omitempty" validate:"omitempty,gte=0.5"`
	OS             *string  `json:"os,omitempty"`
	Ports          []string `json:"ports,omitempty"`
}

// Product represents a catalog entry.
// List and nested fields are stored as JSON text so the same schema works on
// postgres and sqlite.
type Product struct {
	ID          int64       `json:"id" gorm:"primaryKey;autoIncrement"`
	Brand       string      `json:"brand" gorm:"not null"`
	Model       string      `json:"model" gorm:"not null"`
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	Price       float64     `json:"price" gorm:"not null"`
	SalePrice   *float64    `json:"sale_price"`
	Stock       int         `json:"stock" gorm:"not null"`
	ImageURL    *string     `json:"image_url" gorm:"column:image_url"`
	Colors      []string    `json:"colors" gorm:"type:text;serializer:json"`
	Tags        []string    `json:"tags" gorm:"type:text;serializer:json"`
	Specs       *LaptopSpec `json:"specs" gorm:"type:text;serializer:json"`
	Published   bool        `json:"published" gorm:"not null;index"`
}

// TableName pins the table name used by the store.
func (Product) TableName() string {
	return "products"
}

// ProductCreate is the payload accepted when creating a product.
// Pointers mark fields that may be omitted. Brand, Model and Price are
// pointers so that required checks presence only: "" and 0 are accepted.
type ProductCreate struct {
	Brand       *string     `json:"brand" validate:"required"`
	Model       *string     `json:"model" validate:"required"`
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	Price       *float64    `json:"price" validate:"required,gte=0"`
	SalePrice   *float64    `json:"sale_price" validate:"omitempty,gte=0"`
	Stock       *int        `json:"stock" validate:"omitempty,gte=0"`
	ImageURL    *string     `json:"image_url"`
	Colors      []string    `json:"colors"`
	Tags        []string    `json:"tags"`
	Specs       *LaptopSpec `json:"specs"`
	Published   *bool       `json:"published"`
}

// Product converts the payload into a new record, applying defaults:
// stock 0 and published true.
func (c *ProductCreate) Product() *Product {
	p := &Product{
		Title:       c.Title,
		Description: c.Description,
		SalePrice:   c.SalePrice,
		ImageURL:    c.ImageURL,
		Colors:      c.Colors,
		Tags:        c.Tags,
		Specs:       c.Specs,
		Published:   true,
	}
	if c.Brand != nil {
		p.Brand = *c.Brand
	}
	if c.Model != nil {
		p.Model = *c.Model
	}
	if c.Price != nil {
		p.Price = *c.Price
	}
	if c.Stock != nil {
		p.Stock = *c.Stock
	}
	if c.Published != nil {
		p.Published = *c.Published
	}
	return p
}

// ProductUpdate is a partial update. A field that is absent or null in the
// JSON body stays unset and is left untouched in the store.
type ProductUpdate struct {
	Brand       Optional[string]     `json:"brand"`
	Model       Optional[string]     `json:"model"`
	Title       Optional[string]     `json:"title"`
	Description Optional[string]     `json:"description"`
	Price       Optional[float64]    `json:"price" validate:"gte=0"`
	SalePrice   Optional[float64]    `json:"sale_price" validate:"gte=0"`
	Stock       Optional[int]        `json:"stock" validate:"gte=0"`
	ImageURL    Optional[string]     `json:"image_url"`
	Colors      Optional[[]string]   `json:"colors"`
	Tags        Optional[[]string]   `json:"tags"`
	Specs       Optional[LaptopSpec] `json:"specs"`
	Published   Optional[bool]       `json:"published"`
}

// Changes returns a record carrying every set field together with the
// column names to write. An empty column list means nothing to update.
func (u *ProductUpdate) Changes() (*Product, []string) {
	p := &Product{}
	var columns []string

	if v, ok := u.Brand.Get(); ok {
		p.Brand = v
		columns = append(columns, "brand")
	}
	if v, ok := u.Model.Get(); ok {
		p.Model = v
		columns = append(columns, "model")
	}
	if v, ok := u.Title.Get(); ok {
		p.Title = &v
		columns = append(columns, "title")
	}
	if v, ok := u.Description.Get(); ok {
		p.Description = &v
		columns = append(columns, "description")
	}
	if v, ok := u.Price.Get(); ok {
		p.Price = v
		columns = append(columns, "price")
	}
	if v, ok := u.SalePrice.Get(); ok {
		p.SalePrice = &v
		columns = append(columns, "sale_price")
	}
	if v, ok := u.Stock.Get(); ok {
		p.Stock = v
		columns = append(columns, "stock")
	}
	if v, ok := u.ImageURL.Get(); ok {
		p.ImageURL = &v
		columns = append(columns, "image_url")
	}
	if v, ok := u.Colors.Get(); ok {
		p.Colors = v
		columns = append(columns, "colors")
	}
	if v, ok := u.Tags.Get(); ok {
		p.Tags = v
		columns = append(columns, "tags")
	}
	if v, ok := u.Specs.Get(); ok {
		p.Specs = &v
		columns = append(columns, "specs")
	}
	if v, ok := u.Published.Get(); ok {
		p.Published = v
		columns = append(columns, "published")
	}
	return p, columns
}

// Empty reports whether the update carries no field at all.
func (u *ProductUpdate) Empty() bool {
	_, columns := u.Changes()
	return len(columns) == 0
}
