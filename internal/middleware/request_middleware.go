package middleware

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader is echoed on every response.
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestID reuses the client's X-Request-ID or generates a new one, stores it
// in the request locals and sets it on the response.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		} else {
			id = utils.CopyString(id)
		}
		c.Locals(requestIDKey{}, id)
		c.Set(RequestIDHeader, id)
		return c.Next()
	}
}

// GetRequestID returns the id assigned by RequestID, or "" outside of it.
func GetRequestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDKey{}).(string)
	return id
}

// AccessLog writes one line per request to lg.
func AccessLog(lg *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := statusCode(c, err)
		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", GetRequestID(c)),
		}
		switch {
		case status >= fiber.StatusInternalServerError:
			lg.Error("Request failed", append(fields, zap.Error(err))...)
		default:
			lg.Info("Request", fields...)
		}
		return err
	}
}

// statusCode is the status the response will be sent with once err, if any,
// has gone through the fiber error handler.
func statusCode(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}
