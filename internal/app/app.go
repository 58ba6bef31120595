package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"indentdesk/internal/auth"
	"indentdesk/internal/cache"
	"indentdesk/internal/config"
	apierrors "indentdesk/internal/errors"
	"indentdesk/internal/exporter"
	"indentdesk/internal/infrastructure"
	"indentdesk/internal/jobs"
	customMiddleware "indentdesk/internal/middleware"
	"indentdesk/internal/services"
	"indentdesk/internal/sheets"
	"indentdesk/internal/validation"
	transport "indentdesk/internal/transport/http"
	ws "indentdesk/internal/websocket"
	"indentdesk/pkg/contracts"
)

// AppName is shown in startup logs
const AppName = "IndentDesk"

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics
	Store         sheets.Store
	Cache         cache.Cache
	Tokens        *auth.TokenManager
	WebSocketHub  *ws.Hub
	Jobs          *jobs.CronManager
	Services      *ServiceContainer

	errorHandler *apierrors.ErrorHandler
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Reader         *services.SheetReader
	Auth           *services.AuthService
	Dashboard      *services.DashboardService
	Indents        *services.IndentService
	Inventory      *services.InventoryService
	PurchaseOrders *services.PurchaseOrderService
	Master         *services.MasterService
	Uploads        *services.UploadService
	Health         *services.HealthService
}

// NewApplication wires every component from cfg. The logger must already
// be initialized; use infrastructure.InitializeLogger.
func NewApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Application, error) {
	logger.InfoContext(ctx, "Application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.String("store_backend", cfg.Store.Backend),
		slog.String("cache_backend", cfg.Cache.Backend))

	otelCfg := infrastructure.OTelConfigFrom(cfg)
	otelProviders, err := infrastructure.InitializeOTel(otelCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateBusinessMetrics(otelProviders.MeterOrNoop())
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		errorHandler:  apierrors.NewErrorHandler(logger, cfg.Telemetry.Environment == "development"),
	}

	if err := app.initializeServices(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices builds the store, cache and services in dependency order
func (a *Application) initializeServices(ctx context.Context) error {
	paths := validation.NewFileValidator(a.Logger)
	if err := paths.ValidateStore(a.Config.Store); err != nil {
		return fmt.Errorf("invalid store paths: %w", err)
	}
	if a.Config.Jobs.Enabled {
		if err := paths.ValidateOutputDirectory(a.Config.Jobs.SnapshotDir); err != nil {
			return fmt.Errorf("invalid snapshot directory: %w", err)
		}
	}

	store, err := sheets.New(ctx, a.Config.Store, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to open row store: %w", err)
	}
	a.Store = sheets.NewInstrumented(store, a.Metrics)

	c, err := cache.New(a.Config.Cache, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	a.Cache = c

	// Revocations must last until the token expires, which the bounded
	// memory cache cannot promise
	var revocations cache.Cache
	if a.Config.Cache.Backend == config.CacheRedis {
		revocations = c
	}
	a.Tokens = auth.NewTokenManager(a.Config.Auth, revocations)

	hub := ws.NewHub(contracts.Version, a.Metrics, a.Logger)
	a.WebSocketHub = hub

	reader := services.NewSheetReader(a.Store, c, a.Config.Cache.TTL, a.Metrics, a.Logger)

	indentOpts := []services.IndentOption{services.WithBroadcaster(hub)}
	// Only the workbook has no sheet formulas to fill the planned columns
	if a.Config.Store.Backend == config.BackendWorkbook {
		indentOpts = append(indentOpts, services.WithScheduling())
	}

	var snapshots *exporter.SnapshotWriter
	var healthOpts []services.HealthOption
	if stats, ok := c.(services.StatsReporter); ok {
		healthOpts = append(healthOpts, services.WithCacheStats(stats))
	}
	if a.Config.Jobs.Enabled {
		snapshots = exporter.NewSnapshotWriter(a.Config.Jobs.SnapshotDir, a.Config.Jobs.SnapshotRetain, a.Logger)
		healthOpts = append(healthOpts, services.WithSnapshots(snapshots))
	}

	a.Services = &ServiceContainer{
		Reader:         reader,
		Auth:           services.NewAuthService(reader, a.Tokens, a.Logger),
		Dashboard:      services.NewDashboardService(reader, a.Metrics, a.Logger),
		Indents:        services.NewIndentService(reader, a.Metrics, a.Logger, indentOpts...),
		Inventory:      services.NewInventoryService(reader, a.Logger),
		PurchaseOrders: services.NewPurchaseOrderService(reader, a.Logger),
		Master:         services.NewMasterService(reader, a.Logger),
		Uploads:        services.NewUploadService(a.Store, a.Config.Store.UploadFolderID, a.Logger),
		Health:         services.NewHealthService(contracts.Version, a.Store, hub, a.Config.Store.Timeout, a.Logger, healthOpts...),
	}

	if a.Config.Jobs.Enabled {
		a.Jobs = jobs.NewCronManager(a.Config.Jobs,
			reader,
			a.Services.Dashboard,
			snapshots,
			a.Logger,
			jobs.WithNotifications(a.Services.Indents, hub),
		)
		if err := a.Jobs.SetupJobs(); err != nil {
			return fmt.Errorf("failed to schedule jobs: %w", err)
		}
	}

	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// Ordering: RequestID → RealIP → OTel → Logger → Recoverer
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.Telemetry(a.OTelProviders.Tracer, a.Metrics))
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.errorHandler))
	r.Use(customMiddleware.SecurityHeaders)
	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(a.getCORSConfig()))
	}

	requireAuth := customMiddleware.RequireAuth(a.Tokens, a.errorHandler, a.Logger)

	healthHandler := transport.NewHealthHandler(a.Services.Health, a.Logger)
	r.Get("/healthz", healthHandler.LivenessCheck)
	r.Get("/readyz", healthHandler.ReadinessCheck)

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	// The websocket stays outside the timeout and rate limit
	wsHandler := ws.NewHandler(a.WebSocketHub, a.Config.WebSocket, a.Config.Security.AllowedOrigins, a.Logger)
	r.With(requireAuth).Handle("/ws", wsHandler)

	r.Group(func(r chi.Router) {
		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
				a.errorHandler,
			).Handler)
		}
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout))
		r.Use(customMiddleware.Compress(5))
		a.setupAPIRoutes(r, requireAuth)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		a.errorHandler.HandleError(w, r, apierrors.NotFoundError("Route"))
	})

	a.Router = r
}

// setupAPIRoutes configures the v1 API
func (a *Application) setupAPIRoutes(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	validator := customMiddleware.NewValidator()
	svc := a.Services

	authHandler := transport.NewAuthHandler(svc.Auth, validator, a.Logger, a.errorHandler)
	dashboardHandler := transport.NewDashboardHandler(svc.Dashboard, a.Logger, a.errorHandler)
	indentHandler := transport.NewIndentHandler(svc.Indents, validator, a.Logger, a.errorHandler)
	inventoryHandler := transport.NewInventoryHandler(svc.Inventory, svc.PurchaseOrders, a.Logger, a.errorHandler)
	masterHandler := transport.NewMasterHandler(svc.Master, a.Logger, a.errorHandler)
	uploadHandler := transport.NewUploadHandler(svc.Uploads, validator, a.Logger, a.errorHandler)
	clientLogHandler := transport.NewClientLogHandler(validator, a.Logger, a.errorHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Mount("/auth", authHandler.Routes(requireAuth))

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Mount("/dashboard", dashboardHandler.Routes())
			r.Mount("/export", dashboardHandler.ExportRoutes())
			r.Mount("/indents", indentHandler.Routes())
			r.Mount("/inventory", inventoryHandler.Routes())
			r.Mount("/purchase-orders", inventoryHandler.PurchaseOrderRoutes())
			r.Mount("/master", masterHandler.Routes())
			r.Post("/uploads", uploadHandler.Upload)
			r.Post("/logs", clientLogHandler.Handle)
			r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
				render.JSON(w, r, contracts.GetVersionInfo())
			})
		})
	})
}

func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins:   a.Config.Security.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
		Logger:           a.Logger,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start starts the hub, the scheduled jobs and the HTTP server. A listen
// failure cancels ctx through cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	a.WebSocketHub.Start()
	if a.Jobs != nil {
		a.Jobs.Start()
	}

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	if err := a.performStartupHealthCheck(ctx); err != nil {
		a.Logger.WarnContext(ctx, "Startup health check warnings", slog.String("warnings", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// performStartupHealthCheck asks the store for MASTER once so a bad URL or
// credential shows up in the startup logs rather than on the first request
func (a *Application) performStartupHealthCheck(ctx context.Context) error {
	status := a.Services.Health.ReadinessCheck(ctx)
	if status.Status != "ready" {
		return fmt.Errorf("store not ready: %v", status.Services)
	}
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}

	if a.Jobs != nil {
		if err := a.Jobs.Stop(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Jobs did not stop in time", slog.String("error", err.Error()))
		}
	}
	a.WebSocketHub.Stop()

	if err := a.Cache.Close(); err != nil {
		a.Logger.ErrorContext(ctx, "Error closing cache", slog.String("error", err.Error()))
	}
	if err := a.Tokens.Close(); err != nil {
		a.Logger.ErrorContext(ctx, "Error closing revocation list", slog.String("error", err.Error()))
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return errors.Join(errs...)
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case sig := <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
		a.Logger.WarnContext(ctx, "Server stopped unexpectedly")
	}

	// ctx may already be cancelled; shutdown gets its own deadline
	return a.Stop(context.WithoutCancel(ctx))
}
