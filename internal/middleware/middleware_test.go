package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"catalog/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newAdminApp(t *testing.T, token string) *fiber.App {
	app := fiber.New()
	admin := app.Group("/admin", middleware.AdminRequired(token, zaptest.NewLogger(t)))
	admin.Post("/things", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})
	return app
}

func TestAdminRequired(t *testing.T) {
	tests := []struct {
		name       string
		serverKey  string
		header     string
		wantStatus int
	}{
		{"valid token", "s3cret", "s3cret", http.StatusCreated},
		{"missing header", "s3cret", "", http.StatusUnauthorized},
		{"wrong token", "s3cret", "guess", http.StatusUnauthorized},
		{"prefix of token", "s3cret", "s3c", http.StatusUnauthorized},
		{"token not configured", "", "anything", http.StatusInternalServerError},
		{"token not configured and no header", "", "", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newAdminApp(t, tt.serverKey)

			req := httptest.NewRequest(http.MethodPost, "/admin/things", nil)
			if tt.header != "" {
				req.Header.Set(middleware.AdminTokenHeader, tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.RequestID())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(middleware.GetRequestID(c))
	})

	// Generated when absent
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	generated := resp.Header.Get(middleware.RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, string(body))

	// Echoed when supplied
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "req-123", resp.Header.Get(middleware.RequestIDHeader))
}

func TestAccessLogKeepsHandlerError(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.AccessLog(zaptest.NewLogger(t)))
	app.Get("/teapot", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/teapot", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
}

func TestMetrics(t *testing.T) {
	metrics := middleware.NewMetrics(prometheus.NewRegistry())

	app := fiber.New()
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		return c.SendString(c.Params("id"))
	})

	for _, path := range []string{"/items/1", "/items/2"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)
		resp.Body.Close()
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `catalog_http_requests_total{method="GET",route="/items/:id",status="200"} 2`)
}
