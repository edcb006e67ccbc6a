package handlers

import (
	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
	lg       *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, lg *zap.Logger) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: models.NewValidator(),
		lg:       lg,
	}
}

// RegisterRoutes registers the public product routes and, behind adminGate,
// the admin routes.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, adminGate fiber.Handler) {
	products := router.Group("/products")
	products.Get("", h.HandleListProducts)
	products.Get("/:id", h.HandleGetProductByID)

	admin := router.Group("/admin/products", adminGate)
	admin.Get("", h.HandleAdminListProducts)
	admin.Post("", h.HandleCreateProduct)
	admin.Put("/:id", h.HandleUpdateProduct)
	admin.Delete("/:id", h.HandleDeleteProduct)
}

// HandleListProducts lists published products, optionally filtered by the
// q, brand and tag query parameters.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	filter := repositories.ProductFilter{
		Query: c.Query("q"),
		Brand: c.Query("brand"),
		Tag:   c.Query("tag"),
	}
	products, err := h.service.ListPublishedProducts(c.UserContext(), filter)
	if err != nil {
		return h.respondError(c, err, "Could not retrieve products")
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product, published or not.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}
	product, err := h.service.GetProductByID(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err, "Could not retrieve product")
	}
	return c.JSON(product)
}

// HandleAdminListProducts lists every product including unpublished ones.
func (h *ProductHandler) HandleAdminListProducts(c *fiber.Ctx) error {
	products, err := h.service.ListAllProducts(c.UserContext())
	if err != nil {
		return h.respondError(c, err, "Could not retrieve products")
	}
	return c.JSON(products)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var in models.ProductCreate
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(in); err != nil {
		return validationFailed(c, err)
	}

	product, err := h.service.CreateProduct(c.UserContext(), &in)
	if err != nil {
		return h.respondError(c, err, "Could not create product")
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct applies a partial update; absent or null fields are kept.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}

	var patch models.ProductUpdate
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(patch); err != nil {
		return validationFailed(c, err)
	}

	product, err := h.service.UpdateProduct(c.UserContext(), id, &patch)
	if err != nil {
		return h.respondError(c, err, "Could not update product")
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteProduct(c.UserContext(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found or already deleted",
			})
		}
		return h.respondError(c, err, "Could not delete product")
	}
	return c.JSON(fiber.Map{
		"success": true,
	})
}

// productID parses the :id route parameter.
func productID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid product id")
	}
	return int64(id), nil
}
