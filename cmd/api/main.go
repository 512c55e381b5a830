package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/rajputgas/agency-api/docs" // Swagger docs
	"github.com/rajputgas/agency-api/internal/config"
	"github.com/rajputgas/agency-api/internal/database"
	"github.com/rajputgas/agency-api/internal/handlers"
	"github.com/rajputgas/agency-api/internal/jobs"
	"github.com/rajputgas/agency-api/internal/middleware"
	"github.com/rajputgas/agency-api/internal/repository"
	"github.com/rajputgas/agency-api/internal/services"
	"github.com/rajputgas/agency-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title Gas Agency API
// @version 1.0
// @description Custody and billing reconciliation API for gas cylinder distribution

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	// Run migrations
	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	logger.Info("Migrations applied")

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, worker, cfg, db)

	// Schedule recurring jobs
	scheduleJobs(worker, svcs, cfg)

	// Initialize handlers
	h := handlers.NewHandlers(svcs)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Shutdown background worker
	worker.Shutdown()
	logger.Info("Background worker stopped")

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

// scheduleJobs wires the recurring background work: the auto-expiry sweeper
// runs immediately on startup (overdue passes may have accumulated while the
// process was down) and then every SweepInterval.
func scheduleJobs(worker *jobs.Worker, svcs *services.Services, cfg *config.Config) {
	worker.ScheduleEveryImmediate(cfg.SweepInterval, func(ctx context.Context) error {
		_, err := svcs.GatePass.AutoMarkDueReturns(ctx)
		return err
	})
	logger.Info("Scheduled gate pass sweeper", "interval", cfg.SweepInterval)
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Redirect root to swagger
		router.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
		})

		// Swagger documentation
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			// Readable by any authenticated role
			protected.GET("/clients", h.Client.Index)
			protected.GET("/clients/:client_id", h.Client.Show)
			protected.GET("/clients/:client_id/custody", h.Custody.Summary)
			protected.GET("/clients/:client_id/receipts", h.Billing.IndexReceipts)
			protected.GET("/gate_passes", h.GatePass.Index)
			protected.GET("/gate_passes/:gate_pass_id", h.GatePass.Show)
			protected.GET("/billing/weekly", h.Billing.IndexWeekly)
			protected.GET("/weekly_invoices/:invoice_id", h.Billing.ShowInvoice)
			protected.GET("/weekly_invoices/:invoice_id/payments", h.Billing.IndexPayments)

			// Gate operations
			gate := protected.Group("")
			gate.Use(middleware.RequireRole(middleware.RoleAdmin, middleware.RoleGateOperator))
			{
				gate.POST("/gate_passes", h.GatePass.Create)
				gate.POST("/gate_passes/:gate_pass_id/return", h.GatePass.Return)
				gate.POST("/clients/:client_id/returns", h.Custody.CreateReturn)
			}

			// Billing operations
			billing := protected.Group("")
			billing.Use(middleware.RequireRole(middleware.RoleAdmin, middleware.RoleAccountant))
			{
				billing.POST("/billing/weekly/upsert", h.Billing.UpsertWeekly)
				billing.POST("/weekly_invoices/:invoice_id/payments", h.Billing.CreatePayment)
			}

			// Admin-only routes
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				admin.POST("/clients", h.Client.Create)
				admin.POST("/returns/adjustments", h.Custody.CreateAdjustment)
				admin.POST("/gate_passes/sweep", h.GatePass.Sweep)
				admin.GET("/activity_logs", h.Audit.Index)
			}
		}
	}

	return router
}
