package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pratik-mahalle/cisaudit/internal/api/handlers"
	"github.com/pratik-mahalle/cisaudit/internal/api/router"
	"github.com/pratik-mahalle/cisaudit/internal/archive"
	"github.com/pratik-mahalle/cisaudit/internal/config"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/logger"
	"github.com/pratik-mahalle/cisaudit/internal/pkg/validator"
	"github.com/pratik-mahalle/cisaudit/internal/repository/postgres"
	"github.com/pratik-mahalle/cisaudit/internal/services"
	"github.com/pratik-mahalle/cisaudit/internal/worker"
	"github.com/pratik-mahalle/cisaudit/migrations"
)

// @title cisaudit API
// @version 1.0
// @description CIS benchmark catalog and compliance audit tracker.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{Level: "error", Format: "json"}).ErrorWithErr(err, "Failed to load configuration")
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputPath: cfg.Logging.OutputPath,
	})

	if err := run(cfg, log); err != nil {
		log.ErrorWithErr(err, "Server exited with error")
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.New(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	schema, err := migrations.ForDriver(cfg.Database.Driver)
	if err != nil {
		return err
	}
	applied, err := postgres.RunMigrations(db, schema)
	if err != nil {
		return err
	}
	log.WithFields(map[string]interface{}{
		"driver":  cfg.Database.Driver,
		"applied": len(applied),
	}).Info("Database ready")

	store, err := archive.New(ctx, cfg.Archive)
	if err != nil {
		return err
	}
	if closer, ok := store.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	catalogRepo := postgres.NewCatalogRepository(db)
	auditRepo := postgres.NewAuditRepository(db)

	// Services
	userService := services.NewUserService(userRepo, cfg.Auth.BCryptCost, log)
	catalogService := services.NewCatalogService(catalogRepo, log)
	auditService := services.NewAuditService(auditRepo, catalogRepo, log)
	exportService := services.NewExportService(catalogService, auditService, userService, store, cfg.Archive.Prefix, log)

	if cfg.Stats.Enabled {
		collector, err := worker.NewStatsCollector(auditService, catalogService, cfg.Stats.Schedule, log)
		if err != nil {
			return err
		}
		if err := collector.Start(ctx); err != nil {
			return err
		}
		defer collector.Stop()
	}

	val := validator.New()
	handler := router.New(cfg, log, &router.Handlers{
		Health:    handlers.NewHealthHandler(db, log),
		Auth:      handlers.NewAuthHandler(userService, cfg, log, val),
		Dashboard: handlers.NewDashboardHandler(catalogService, auditService, log),
		Catalog:   handlers.NewCatalogHandler(catalogService, log),
		Audit:     handlers.NewAuditHandler(auditService, log, val),
		Export:    handlers.NewExportHandler(exportService, log),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(map[string]interface{}{
			"addr":        srv.Addr,
			"environment": cfg.Server.Environment,
			"archive":     store.Name(),
		}).Info("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
