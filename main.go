package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"catalog/internal/config"
	"catalog/internal/handlers"
	"catalog/internal/middleware"
	"catalog/internal/repositories"
	"catalog/internal/services"
	"catalog/pkg/rabbitmq"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// --- Configuration ---
	cfg, err := config.Load(viper.New())
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	lg, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	// --- Store ---
	// A missing or broken store does not stop the server: product endpoints
	// answer 500 until the configuration is fixed, and /test says why.
	repo, db := openStore(cfg, lg)
	if db != nil {
		defer func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}()
	}

	// --- Product events (optional) ---
	var events services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Exchange: cfg.RabbitMQExchange})
		if err != nil {
			lg.Warn("RabbitMQ unavailable, product events disabled", zap.Error(err))
		} else {
			defer mqClient.Close()
			events = mqClient
			lg.Info("Publishing product events", zap.String("exchange", cfg.RabbitMQExchange))
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	app := newApp(appDeps{
		cfg:        cfg,
		repo:       repo,
		storeReady: db != nil,
		events:     events,
		lg:         lg,
		registry:   registry,
	})

	// --- Start HTTP Server ---
	lg.Info("Starting server", zap.String("addr", cfg.Addr()))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.Addr()); err != nil {
			lg.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	<-quit
	lg.Info("Shutting down server")

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		lg.Error("Error during Fiber shutdown", zap.Error(err))
	}
	lg.Info("Server gracefully stopped")
}

// appDeps are the collaborators the HTTP app is built from. They are created
// once at startup and never mutated afterwards.
type appDeps struct {
	cfg        *config.Config
	repo       repositories.ProductRepository
	storeReady bool
	events     services.EventPublisher
	lg         *zap.Logger
	registry   *prometheus.Registry
}

// newApp wires services, handlers and middleware into a Fiber app.
func newApp(d appDeps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Laptop Catalog API",
		ErrorHandler:          handlers.ErrorHandler(d.lg),
		DisableStartupMessage: true,
	})

	metrics := middleware.NewMetrics(d.registry)

	// --- Middleware ---
	app.Use(fiberrecover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.AccessLog(d.lg))
	app.Use(metrics.Middleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
	}))

	// --- Services ---
	productService := services.NewProductService(d.repo, d.events, d.lg)

	// --- Routes ---
	healthHandler := handlers.NewHealthHandler(productService, handlers.Diagnostics{
		StoreURLSet:   d.cfg.DatabaseURL != "",
		StoreKeySet:   d.cfg.DatabaseKey != "",
		AdminTokenSet: d.cfg.AdminToken != "",
		StoreReady:    d.storeReady,
	})
	healthHandler.RegisterRoutes(app)
	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api")
	productHandler := handlers.NewProductHandler(productService, d.lg)
	productHandler.RegisterRoutes(api, middleware.AdminRequired(d.cfg.AdminToken, d.lg))

	return app
}

// openStore returns the product repository for cfg. When the store is not
// configured or cannot be opened, it returns a repository that fails every
// call and a nil handle.
func openStore(cfg *config.Config, lg *zap.Logger) (repositories.ProductRepository, *gorm.DB) {
	if !cfg.StoreConfigured() {
		lg.Warn("Store not configured, set DATABASE_URL and DATABASE_SERVICE_KEY")
		return repositories.NewUnavailableProductRepository(repositories.ErrStoreNotConfigured), nil
	}

	db, err := repositories.OpenDatabase(cfg)
	if err != nil {
		lg.Error("Failed to open store", zap.String("driver", cfg.DatabaseDriver), zap.Error(err))
		return repositories.NewUnavailableProductRepository(repositories.ErrStoreUnavailable), nil
	}
	lg.Info("Store connected", zap.String("driver", cfg.DatabaseDriver))
	return repositories.NewGORMProductRepository(db), db
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	return zcfg.Build()
}
