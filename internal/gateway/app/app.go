package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/ratholink/internal/gateway/google"
	httpapi "github.com/aussiebroadwan/ratholink/internal/gateway/http"
	"github.com/aussiebroadwan/ratholink/internal/gateway/service"
	"github.com/aussiebroadwan/ratholink/internal/gateway/store"
	"github.com/aussiebroadwan/ratholink/internal/gateway/store/drivers/sqlite"
	"github.com/aussiebroadwan/ratholink/pkg/sessionx"
	"github.com/aussiebroadwan/ratholink/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the gateway with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db        store.Store
	sessions  *sessionx.Codec
	tokens    *google.TokenClient
	workspace *google.WorkspaceClient

	// Services
	identityService  *service.IdentityService
	authService      *service.AuthService
	workspaceService *service.WorkspaceService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New validates cfg and builds the application. Nothing listens until Run.
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "ratholink-gateway",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initClients(); err != nil {
		return nil, err
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("gateway starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down gateway...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("gateway stopped")
	return nil
}

// Handler exposes the routed handler, mainly for tests.
func (app *Application) Handler() http.Handler {
	return app.router
}

// initClients builds the cookie codec and the Google clients. They share one
// outbound HTTP client so the upstream timeout applies everywhere.
func (app *Application) initClients() error {
	sessions, err := sessionx.NewCodec([]byte(app.cfg.SessionSecret), sessionx.Options{
		TTL:    app.cfg.SessionTTL,
		Secure: app.cfg.CookieSecure,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize session codec: %w", err)
	}
	app.sessions = sessions

	upstream := &http.Client{Timeout: app.cfg.UpstreamTimeout}

	tokens, err := google.NewTokenClient(google.Config{
		ClientID:     app.cfg.GoogleClientID,
		ClientSecret: app.cfg.GoogleClientSecret,
		RedirectURL:  app.cfg.GoogleRedirectURI,
		HTTPClient:   upstream,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize token client: %w", err)
	}
	app.tokens = tokens

	app.workspace = google.NewWorkspaceClient(google.WorkspaceConfig{HTTPClient: upstream})
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	// Immediate transactions take the write lock at BEGIN, so concurrent
	// logins queue on busy_timeout instead of failing a lock upgrade.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate", app.cfg.DatabaseFile)
	if app.cfg.DatabaseFile == ":memory:" {
		dsn = ":memory:"
	}

	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.identityService = &service.IdentityService{Store: app.db}
	app.authService = &service.AuthService{
		Tokens:   app.tokens,
		Identity: app.identityService,
	}
	app.workspaceService = &service.WorkspaceService{
		Fetcher: &service.Fetcher{
			Store:         app.db,
			Tokens:        app.tokens,
			IsAuthFailure: google.IsUnauthorized,
		},
		API: app.workspace,
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(app.sessions, BuildVersion, app.db, app.logger)

	router.IdentityService = app.identityService
	router.AuthService = app.authService
	router.WorkspaceService = app.workspaceService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
