package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"catalogapi/docs"
	"catalogapi/internal/asset"
	"catalogapi/internal/auth"
	"catalogapi/internal/config"
	"catalogapi/internal/database"
	"catalogapi/internal/database/migration"
	handlers "catalogapi/internal/http/handler"
	"catalogapi/internal/http/middleware"
	"catalogapi/internal/logging"
	"catalogapi/internal/metrics"
	"catalogapi/internal/model"
	catalogotel "catalogapi/internal/otel"
	"catalogapi/internal/repository"
	"catalogapi/internal/repository/postgres"
	"catalogapi/internal/service"
	"catalogapi/internal/storage"
)

// @title Catalog API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	log, err := logging.New(cfg.Log.Level, cfg.Location())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server_failed", zap.Error(err))
	}
}

func run(cfg *config.AppConfig, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := catalogotel.Init(ctx, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn("tracing_shutdown_failed", zap.Error(err))
		}
	}()

	store, health, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	blobs, err := openStorage(cfg)
	if err != nil {
		return fmt.Errorf("init cover storage: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	assetMetrics, err := metrics.NewAssets(reg)
	if err != nil {
		return fmt.Errorf("register asset metrics: %w", err)
	}
	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return fmt.Errorf("register http metrics: %w", err)
	}

	assets := asset.NewStore(blobs, log, assetMetrics).WithMaxBytes(cfg.Storage.MaxUploadBytes)
	catalog := service.NewAuthorizedCatalogService(service.NewCatalogService(store, assets, log, assetMetrics))

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		// Room for the form fields next to the largest accepted cover
		BodyLimit: int(cfg.Storage.MaxUploadBytes) + 1<<20,
	})

	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(httpMetrics.Handler())
	app.Use(middleware.Principal(store.Users()))

	handlers.RegisterRoutes(app, health, catalog, reg)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	errc := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		log.Info("server_starting", zap.String("addr", addr), zap.String("db_driver", cfg.Database.Driver))
		errc <- app.Listen(addr)
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info("server_stopping")
	return app.ShutdownWithTimeout(10 * time.Second)
}

// openStore returns the configured relational store, its readiness check and a close func.
func openStore(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) (repository.Store, handlers.Pinger, func(), error) {
	db, dialect, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	target := cfg.Database.Host
	if dialect == database.SQLite {
		target = cfg.Database.Path
	}
	if err := migration.EnsureMigrated(ctx, db, dialect, log, target); err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("migrate: %w", err)
	}
	store := postgres.NewStore(db, dialect)

	if cfg.Database.InMemory() {
		log.Warn("using in-memory database, data is lost on restart")
		for _, u := range demoUsers() {
			if _, err := store.Users().Create(ctx, &u); err != nil {
				store.Close()
				return nil, nil, nil, fmt.Errorf("seed user %s: %w", u.Login, err)
			}
		}
	}
	return store, handlers.PingFunc(store.Ping), func() { store.Close() }, nil
}

func openStorage(cfg *config.AppConfig) (storage.Storage, error) {
	switch cfg.Storage.Backend {
	case "minio":
		return storage.NewMinIO(cfg.MinIO)
	case "local", "":
		return storage.NewLocal(cfg.Storage.UploadDir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// demoUsers seeds one account per role into an in-memory database. They get IDs 1, 2 and 3.
func demoUsers() []model.User {
	roles := []string{auth.RoleAdmin, auth.RoleMod, auth.RoleUser}
	users := make([]model.User, 0, len(roles))
	for _, r := range roles {
		users = append(users, model.User{Login: r, Role: model.Role{Name: r}})
	}
	return users
}
