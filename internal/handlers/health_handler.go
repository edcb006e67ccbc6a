package handlers

import (
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
)

const maxDiagnosticLen = 120

// Diagnostics describes which pieces of configuration were present at startup.
type Diagnostics struct {
	StoreURLSet   bool
	StoreKeySet   bool
	AdminTokenSet bool
	// StoreReady is true when a store client was created.
	StoreReady bool
}

// HealthHandler serves the liveness and diagnostics endpoints.
type HealthHandler struct {
	service *services.ProductService
	diag    Diagnostics
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(service *services.ProductService, diag Diagnostics) *HealthHandler {
	return &HealthHandler{
		service: service,
		diag:    diag,
	}
}

// RegisterRoutes registers the health routes with the Fiber app.
func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleRoot)
	router.Get("/test", h.HandleDiagnostics)
}

// HandleRoot answers liveness checks.
func (h *HealthHandler) HandleRoot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Laptop Catalog Backend is running",
	})
}

// HandleDiagnostics reports configuration state and whether the products
// table can be queried. It always answers 200.
func (h *HealthHandler) HandleDiagnostics(c *fiber.Ctx) error {
	info := fiber.Map{
		"backend":      "running",
		"database_url": setOrNot(h.diag.StoreURLSet),
		"database_key": setOrNot(h.diag.StoreKeySet),
		"admin_token":  setOrNot(h.diag.AdminTokenSet),
		"database":     "not connected",
		"tables":       []string{},
	}

	if h.diag.StoreReady {
		info["database"] = "connected"
		if err := h.service.CheckStore(c.UserContext()); err != nil {
			info["database"] = "error querying: " + truncate(err.Error(), maxDiagnosticLen)
		} else {
			info["tables"] = []string{"products"}
		}
	}
	return c.JSON(info)
}

func setOrNot(set bool) string {
	if set {
		return "set"
	}
	return "not set"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
