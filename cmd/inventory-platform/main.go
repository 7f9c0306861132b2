package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inventorypro/inventory-platform/internal/api/handlers"
	"github.com/inventorypro/inventory-platform/internal/api/middleware"
	"github.com/inventorypro/inventory-platform/internal/cache"
	"github.com/inventorypro/inventory-platform/internal/config"
	"github.com/inventorypro/inventory-platform/internal/health"
	"github.com/inventorypro/inventory-platform/internal/metrics"
	repository "github.com/inventorypro/inventory-platform/internal/repositories"
	redisRepo "github.com/inventorypro/inventory-platform/internal/repositories/redis"
	service "github.com/inventorypro/inventory-platform/internal/services"
	"github.com/inventorypro/inventory-platform/internal/telemetry"
	"github.com/inventorypro/inventory-platform/pkg/drive"
	"github.com/inventorypro/inventory-platform/pkg/sendgrid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	ctx := context.Background()

	// Tracing setup
	shutdownTelemetry, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		slog.Error("Error initializing telemetry", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Database setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("Error accessing the database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("Database connection closed")
		}
	}()

	if err := repository.Migrate(ctx, repos.DB); err != nil {
		slog.Error("Error applying schema migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Redis setup
	redis, err := redisRepo.NewRedisRepo(cfg)
	if err != nil {
		slog.Error("Error accessing the redis instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	summaryCache := cache.NewRedisCache(redis.Client(), &cfg.Cache)

	// Cloud backup setup. The Drive client is optional: without credentials
	// the backup endpoints answer with an auth-required error.
	tokenSource := drive.TokenSourceFromRefreshToken(ctx,
		cfg.Drive.ClientID, cfg.Drive.ClientSecret, cfg.Drive.RefreshToken)
	gate := drive.NewTokenGate(tokenSource)

	var driveClient drive.Client

	if tokenSource != nil {
		driveClient, err = drive.NewClient(ctx, tokenSource)
		if err != nil {
			slog.Error("Error creating drive client", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	jwtKey := []byte(cfg.Security.JWTKey)
	emailService := sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	notificationService := service.NewNotificationService(emailService, cfg.SendGrid.LowStockRecipient)

	userService := service.NewUserService(cfg.Security, redis)
	userHandler := handlers.NewUserHandler(userService)
	inventoryService := service.NewInventoryService(repos.DB, repos.Product, repos.Transaction, summaryCache)
	productHandler := handlers.NewProductHandler(inventoryService)
	stockService := service.NewStockService(repos.DB, repos.Product, repos.Transaction, summaryCache, notificationService)
	stockHandler := handlers.NewStockHandler(stockService, inventoryService)
	dashboardHandler := handlers.NewDashboardHandler(inventoryService)
	backupService := service.NewBackupService(repos.DB, repos.Product, repos.Transaction, summaryCache,
		driveClient, gate, cfg.Drive.BackupFolder, cfg.Drive.BackupFile)
	backupHandler := handlers.NewBackupHandler(backupService)
	authMiddleware := middleware.NewAuthMiddleware(jwtKey)

	healthHandler, err := health.NewHealthHandler(cfg, &health.Endpoints{DB: repos.DB, RedisClient: redis.Client()})
	if err != nil {
		slog.Error("Error creating health handler", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("POST /api/v1/auth/login", userHandler.Login())
	routerMux.HandleFunc("POST /api/v1/products", authMiddleware.Authenticate(productHandler.CreateProduct()))
	routerMux.HandleFunc("GET /api/v1/products", authMiddleware.Authenticate(productHandler.ListProducts()))
	routerMux.HandleFunc("GET /api/v1/products/low-stock", authMiddleware.Authenticate(productHandler.ListLowStock()))
	routerMux.HandleFunc("GET /api/v1/products/{id}", authMiddleware.Authenticate(productHandler.GetProduct()))
	routerMux.HandleFunc("PUT /api/v1/products/{id}", authMiddleware.Authenticate(productHandler.UpdateProduct()))
	routerMux.HandleFunc("DELETE /api/v1/products/{id}", authMiddleware.Authenticate(productHandler.DeleteProduct()))
	routerMux.HandleFunc("GET /api/v1/products/{id}/transactions", authMiddleware.Authenticate(productHandler.ListProductTransactions()))
	routerMux.HandleFunc("POST /api/v1/stock/movements", authMiddleware.Authenticate(stockHandler.RecordMovement()))
	routerMux.HandleFunc("GET /api/v1/stock/movements", authMiddleware.Authenticate(stockHandler.ListMovements()))
	routerMux.HandleFunc("GET /api/v1/dashboard/summary", authMiddleware.Authenticate(dashboardHandler.Summary()))
	routerMux.HandleFunc("GET /api/v1/backups/export", authMiddleware.Authenticate(backupHandler.Export()))
	routerMux.HandleFunc("POST /api/v1/backups/import", authMiddleware.Authenticate(backupHandler.Import()))
	routerMux.HandleFunc("POST /api/v1/backups/cloud", authMiddleware.Authenticate(backupHandler.CloudBackup()))
	routerMux.HandleFunc("POST /api/v1/backups/cloud/restore", authMiddleware.Authenticate(backupHandler.CloudRestore()))
	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, "inventory-platform")

	// Setup http server
	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("Failed to start server", slog.String("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTelemetry(shutdownCtx); err != nil {
		slog.Error("Telemetry shutdown encountered an issue", slog.String("error", err.Error()))
	}

	if err := summaryCache.Close(); err != nil {
		slog.Error("Error closing redis connection", slog.String("error", err.Error()))
	}
}
