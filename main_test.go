package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"catalog/internal/config"
	"catalog/internal/middleware"
)

func sqliteConfig() *config.Config {
	return &config.Config{
		Port:            "8081",
		DatabaseDriver:  config.DriverSQLite,
		DatabaseURL:     fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		DatabaseMigrate: true,
		AdminToken:      "test_admin_token",
	}
}

func newTestApp(t *testing.T, cfg *config.Config) func(req *http.Request) *http.Response {
	t.Helper()
	lg := zaptest.NewLogger(t)

	repo, db := openStore(cfg, lg)
	if db != nil {
		sqlDB, err := db.DB()
		require.NoError(t, err)
		t.Cleanup(func() { _ = sqlDB.Close() })
	}

	app := newApp(appDeps{
		cfg:        cfg,
		repo:       repo,
		storeReady: db != nil,
		lg:         lg,
		registry:   prometheus.NewRegistry(),
	})

	do := func(req *http.Request) *http.Response {
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}
	return do
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestRootAndDiagnostics(t *testing.T) {
	do := newTestApp(t, sqliteConfig())

	resp := do(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Laptop Catalog Backend is running", decode(t, resp)["message"])
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))

	resp = do(httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	info := decode(t, resp)
	assert.Equal(t, "running", info["backend"])
	assert.Equal(t, "set", info["database_url"])
	assert.Equal(t, "set", info["admin_token"])
	assert.Equal(t, "connected", info["database"])
	assert.Equal(t, []interface{}{"products"}, info["tables"])
}

func TestDiagnosticsQueryError(t *testing.T) {
	cfg := sqliteConfig()
	cfg.DatabaseMigrate = false
	do := newTestApp(t, cfg)

	resp := do(httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	info := decode(t, resp)
	assert.Equal(t, "running", info["backend"])
	assert.Equal(t, []interface{}{}, info["tables"])

	database, ok := info["database"].(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(database, "error querying: "), database)
	assert.Contains(t, database, "no such table: products")
}

func TestUnconfiguredStore(t *testing.T) {
	cfg := &config.Config{DatabaseDriver: config.DriverPostgres}
	do := newTestApp(t, cfg)

	resp := do(httptest.NewRequest(http.MethodGet, "/test", nil))
	info := decode(t, resp)
	assert.Equal(t, "not set", info["database_url"])
	assert.Equal(t, "not set", info["database_key"])
	assert.Equal(t, "not set", info["admin_token"])
	assert.Equal(t, "not connected", info["database"])
	assert.Equal(t, []interface{}{}, info["tables"])

	resp = do(httptest.NewRequest(http.MethodGet, "/api/products", nil))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, decode(t, resp)["message"], "Store not configured")

	resp = do(httptest.NewRequest(http.MethodGet, "/api/products/1", nil))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	// The admin gate reports its own misconfiguration first.
	resp = do(httptest.NewRequest(http.MethodGet, "/api/admin/products", nil))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "ADMIN_TOKEN not set on server", decode(t, resp)["message"])
}

func TestUnreachableStore(t *testing.T) {
	cfg := &config.Config{
		DatabaseDriver: config.DriverPostgres,
		DatabaseURL:    "mysql://nowhere",
		DatabaseKey:    "key",
		AdminToken:     "t",
	}
	do := newTestApp(t, cfg)

	resp := do(httptest.NewRequest(http.MethodGet, "/api/products", nil))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Store client not initialized", decode(t, resp)["message"])

	info := decode(t, do(httptest.NewRequest(http.MethodGet, "/test", nil)))
	assert.Equal(t, "set", info["database_url"])
	assert.Equal(t, "not connected", info["database"])
}

func TestCORSAllowsAnyOrigin(t *testing.T) {
	do := newTestApp(t, sqliteConfig())

	req := httptest.NewRequest(http.MethodOptions, "/api/admin/products", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", middleware.AdminTokenHeader)
	resp := do(req)

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPut)
}

func TestMetricsEndpoint(t *testing.T) {
	do := newTestApp(t, sqliteConfig())

	do(httptest.NewRequest(http.MethodGet, "/api/products", nil))

	resp := do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `catalog_http_requests_total{method="GET",route="/api/products",status="200"} 1`)
}
