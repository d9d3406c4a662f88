package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"counselfinder/internal/config"
	"counselfinder/internal/edgar"
	apierrors "counselfinder/internal/errors"
	"counselfinder/internal/exporter"
	"counselfinder/internal/infrastructure"
	"counselfinder/internal/llm"
	custommw "counselfinder/internal/middleware"
	"counselfinder/internal/reference"
	"counselfinder/internal/search"
	"counselfinder/internal/services"
	"counselfinder/internal/stockloan"
	handlers "counselfinder/internal/transport/http"
	ws "counselfinder/internal/websocket"
	"counselfinder/pkg/contracts"
)

// Application wires configuration, services, and the HTTP server.
type Application struct {
	Config *config.Config
	Paths  *config.Paths
	Router *chi.Mux
	Server *http.Server
	Logger *slog.Logger

	Hub  *ws.Hub
	OTel *infrastructure.OTelProviders

	SearchService    *services.SearchService
	ReferenceService *services.ReferenceService
	StockLoanService *services.StockLoanService
	HealthService    *services.HealthService

	otelMiddleware *custommw.OTelMiddleware
}

// NewApplication builds the application from configuration.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("version", contracts.Version),
		slog.Int("port", cfg.Server.Port),
	)

	paths, err := config.ResolvePaths(cfg.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	otelProviders, err := infrastructure.InitializeOTel(context.Background(), "counselfinder")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	app := &Application{
		Config: cfg,
		Paths:  paths,
		Logger: logger,
		OTel:   otelProviders,
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices constructs the domain services bottom-up.
func (a *Application) initializeServices() error {
	hub := ws.NewHub(a.Logger)
	hub.Start()
	a.Hub = hub

	otelMiddleware, err := custommw.NewOTelMiddleware(a.OTel, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create otel middleware: %w", err)
	}
	a.otelMiddleware = otelMiddleware

	edgarClient := edgar.NewClient(a.Config.EDGAR, a.Logger)
	extractor := llm.NewExtractor(a.Config.OpenAI, a.Logger)
	if !extractor.Enabled() {
		a.Logger.Warn("no OpenAI API key configured, company search is disabled")
	}

	engine := search.NewEngine(edgarClient, extractor, a.Config.EDGAR.MaxConcurrency, a.Logger)
	store := reference.NewStore(a.Paths.DataDir, a.Logger)

	csvWriter := exporter.NewCSVWriter(a.Paths)
	a.SearchService = services.NewSearchService(engine, store, hub, otelMiddleware.Metrics(), a.Logger).
		WithExporter(csvWriter)
	a.ReferenceService = services.NewReferenceService(store, a.Logger)
	a.StockLoanService = services.NewStockLoanService(stockloan.NewClient(a.Config.StockLoan, a.Logger), a.Logger).
		WithExporter(csvWriter)
	a.HealthService = services.NewHealthService(contracts.Version, a.Paths, store, extractor, hub, a.Logger)

	return nil
}

// setupRouter configures the HTTP router. The WebSocket route stays
// outside the middleware group so nothing wraps its ResponseWriter
// before the upgrade.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	errorHandler := apierrors.NewErrorHandler(a.Logger, false)

	r.Use(custommw.RequestID)
	r.Use(custommw.RealIP)
	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	r.With(custommw.WebSocketTraceMiddleware(a.Logger)).
		Handle("/ws", ws.NewHandler(a.Hub, a.Config.WebSocket, a.Logger))
	r.Handle("/metrics", a.OTel.PrometheusHandler())

	r.Group(func(r chi.Router) {
		r.Use(a.otelMiddleware.Handler)
		r.Use(custommw.StructuredLogger(a.Logger))
		r.Use(custommw.Recoverer(a.Logger))
		r.Use(custommw.SecurityHeaders)
		r.Use(custommw.CORS(a.corsConfig()))

		if a.Config.Security.RateLimit.Enabled {
			r.Use(custommw.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r, errorHandler)
	})

	a.Router = r
}

// setupAPIRoutes mounts the API endpoints. Searches fan out over many
// EDGAR requests and get a longer timeout than the other endpoints.
func (a *Application) setupAPIRoutes(r chi.Router, errorHandler *apierrors.ErrorHandler) {
	validation := custommw.NewValidationMiddleware(a.Logger)
	searchHandler := handlers.NewSearchHandler(a.SearchService, validation, a.Logger, errorHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Group(func(r chi.Router) {
			r.Use(custommw.Timeout(a.Config.Server.SearchTimeout, a.Logger))

			r.Mount("/search", searchHandler.Routes())
		})

		r.Group(func(r chi.Router) {
			r.Use(custommw.Timeout(a.Config.Server.ReadTimeout, a.Logger))

			r.Get("/companies", searchHandler.Companies)

			healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
			r.Get("/health", healthHandler.Health)
			r.Get("/health/ready", healthHandler.Ready)
			r.Get("/health/live", healthHandler.Live)
			r.Get("/version", healthHandler.Version)

			referenceHandler := handlers.NewReferenceHandler(a.ReferenceService, a.Logger, errorHandler)
			r.Mount("/reference", referenceHandler.Routes())
		})

		r.Group(func(r chi.Router) {
			// The FTP fetch can take a while on a cold cache
			r.Use(custommw.Timeout(a.Config.StockLoan.Timeout, a.Logger))

			stockLoanHandler := handlers.NewStockLoanHandler(a.StockLoanService, a.Logger, errorHandler)
			r.Mount("/stockloan", stockLoanHandler.Routes())
		})
	})
}

func (a *Application) corsConfig() custommw.CORSConfig {
	cfg := custommw.CORSConfig{
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
			"X-Requested-With",
		},
		ExposedHeaders: []string{
			"X-Request-ID",
			"Content-Disposition",
		},
		AllowCredentials: true,
		MaxAge:           300,
		Logger:           a.Logger,
	}
	if a.Config.Security.EnableCORS {
		cfg.AllowedOrigins = a.Config.Security.AllowedOrigins
	}
	return cfg
}

// createServer creates the HTTP server. The write timeout follows the
// search budget, not the read timeout: a company search legitimately
// takes minutes before the first response byte.
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.SearchTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start launches the HTTP server. Cancel is invoked on a server error
// so Run can unwind.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "listening",
		slog.String("address", a.Server.Addr),
		slog.String("data_dir", a.Paths.DataDir),
		slog.String("exports_dir", a.Paths.ExportsDir),
	)

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	return nil
}

// Stop gracefully shuts the application down.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	a.Hub.Stop()

	if err := a.OTel.Shutdown(shutdownCtx); err != nil {
		a.Logger.ErrorContext(ctx, "otel shutdown error", slog.String("error", err.Error()))
	}

	infrastructure.CloseLogFile()
	a.Logger.InfoContext(ctx, "shutdown complete")
	return nil
}

// Run starts the application and blocks until interrupted.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
