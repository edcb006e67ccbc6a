package handlers

import (
	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"

	"github.com/go-faster/errors"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler renders errors that reach fiber as {"message": ...}.
// Anything that is not a *fiber.Error is reported as a bare 500.
func ErrorHandler(lg *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		} else {
			lg.Error("Unhandled error", zap.String("path", c.Path()), zap.Error(err))
		}
		return c.Status(code).JSON(fiber.Map{
			"message": message,
		})
	}
}

// respondError maps service and repository errors onto HTTP responses.
// fallback is the message used for unexpected store failures.
func (h *ProductHandler) respondError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Product not found",
		})
	case errors.Is(err, services.ErrNoFieldsToUpdate):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "No fields to update",
		})
	case errors.Is(err, repositories.ErrStoreNotConfigured):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Store not configured (DATABASE_URL, DATABASE_SERVICE_KEY)",
		})
	case errors.Is(err, repositories.ErrStoreUnavailable):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Store client not initialized",
		})
	}

	h.lg.Error(fallback, zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": fallback,
	})
}

// validationFailed writes a 422 listing every failing field.
func validationFailed(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  models.ValidationMessages(err),
	})
}
