package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glanzwerk/crm/docs"
	"github.com/glanzwerk/crm/internal/auth"
	"github.com/glanzwerk/crm/internal/config"
	"github.com/glanzwerk/crm/internal/database"
	"github.com/glanzwerk/crm/internal/events"
	"github.com/glanzwerk/crm/internal/export"
	"github.com/glanzwerk/crm/internal/http/handler"
	"github.com/glanzwerk/crm/internal/http/middleware"
	"github.com/glanzwerk/crm/internal/http/router"
	"github.com/glanzwerk/crm/internal/jobs"
	"github.com/glanzwerk/crm/internal/logger"
	"github.com/glanzwerk/crm/internal/repository"
	"github.com/glanzwerk/crm/internal/seed"
	"github.com/glanzwerk/crm/internal/service"
	"github.com/glanzwerk/crm/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// @title Glanzwerk CRM API
// @version 1.0
// @description Customers, orders, quotes, invoices, communications, inventory, quality checks and time tracking of a cleaning services business.

// @contact.name Glanzwerk IT
// @contact.email it@glanzwerk.de

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Session token as "Bearer {token}"

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API key for system operations

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Basic configuration first, for logging setup
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	if host := os.Getenv("SWAGGER_HOST"); host != "" {
		docs.SwaggerInfo.Host = host
	} else {
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// In development secrets come from the environment, in staging/production from Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := migrate(db, &cfg.Database, log); err != nil {
		return err
	}

	fileStorage, err := storage.NewStorage(ctx, &cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	catalog, err := seed.Load()
	if err != nil {
		return err
	}

	hub := events.NewHub(cfg.CORS.AllowedOrigins, log)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	templateRepo := repository.NewQuoteTemplateRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	communicationRepo := repository.NewCommunicationRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	qualityRepo := repository.NewQualityCheckRepository(db)
	timeEntryRepo := repository.NewTimeEntryRepository(db)
	numberSequenceRepo := repository.NewNumberSequenceRepository(db)

	if err := catalog.ApplyTemplates(ctx, templateRepo, log); err != nil {
		return err
	}

	// Services
	tokens := auth.NewTokenManager(&cfg.Auth)
	numbers := service.NewNumberSequenceService(numberSequenceRepo, nil, log)

	authService := service.NewAuthService(userRepo, customerRepo, tokens, log)
	customerService := service.NewCustomerService(customerRepo, numbers, hub, log)
	orderService := service.NewOrderService(orderRepo, customerRepo, numbers, hub, nil, log)
	quoteService := service.NewQuoteService(quoteRepo, templateRepo, customerRepo, numbers, hub, nil, log)
	invoiceService := service.NewInvoiceService(invoiceRepo, customerRepo, orderRepo, numbers, hub, nil, log)
	communicationService := service.NewCommunicationService(communicationRepo, customerRepo, orderRepo, hub, nil, log)
	inventoryService := service.NewInventoryService(inventoryRepo, catalog, hub, log)
	qualityService := service.NewQualityCheckService(qualityRepo, customerRepo, orderRepo, fileStorage, catalog, hub, nil, log)
	timeEntryService := service.NewTimeEntryService(timeEntryRepo, customerRepo, orderRepo, hub, nil, log)

	if cfg.Auth.AdminEmail != "" && cfg.Auth.AdminPassword != "" {
		if err := authService.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword, cfg.Auth.AdminName); err != nil {
			return fmt.Errorf("failed to bootstrap admin: %w", err)
		}
	}

	authMiddleware := auth.NewMiddleware(tokens, cfg.ApiKey.Value, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	exporter := export.NewExporter(customerRepo, orderRepo, invoiceRepo, inventoryRepo, timeEntryRepo, log)

	rt := router.NewRouter(cfg, log, authMiddleware, rateLimiter, router.Handlers{
		Health:        handler.NewHealthHandler(db, hub, log),
		Auth:          handler.NewAuthHandler(authService, log),
		Customer:      handler.NewCustomerHandler(customerService, log),
		Order:         handler.NewOrderHandler(orderService, log),
		Quote:         handler.NewQuoteHandler(quoteService, log),
		Invoice:       handler.NewInvoiceHandler(invoiceService, log),
		Communication: handler.NewCommunicationHandler(communicationService, log),
		Inventory:     handler.NewInventoryHandler(inventoryService, log),
		QualityCheck:  handler.NewQualityCheckHandler(qualityService, cfg.Storage.MaxUploadSizeMB, log),
		TimeEntry:     handler.NewTimeEntryHandler(timeEntryService, log),
		Portal: handler.NewPortalHandler(
			authService, customerService, orderService, invoiceService, communicationService, log,
		),
		Export: handler.NewExportHandler(exporter, log),
		Events: hub,
	})

	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log, cfg.Jobs.TimeoutDuration())
		if err := jobs.RegisterMaintenanceJobs(scheduler, &cfg.Jobs, invoiceService, quoteService, log, true); err != nil {
			log.Error("Failed to register maintenance jobs", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started", zap.Strings("jobs", scheduler.JobNames()))
		}
	} else {
		log.Info("Background jobs disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			<-scheduler.Stop().Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}

// migrate brings the schema up to date: goose migrations on PostgreSQL,
// model based auto-migration on SQLite or when explicitly enabled.
func migrate(db *gorm.DB, cfg *config.DatabaseConfig, log *zap.Logger) error {
	if cfg.Driver == "sqlite" || cfg.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to auto-migrate: %w", err)
		}
		log.Info("Schema auto-migrated", zap.String("driver", cfg.Driver))
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := database.Migrate(sqlDB); err != nil {
		return err
	}
	log.Info("Migrations applied")
	return nil
}
