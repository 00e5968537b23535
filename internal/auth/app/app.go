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

	"github.com/wardenauth/warden/internal/auth/events"
	httpapi "github.com/wardenauth/warden/internal/auth/http"
	"github.com/wardenauth/warden/internal/auth/service"
	"github.com/wardenauth/warden/internal/auth/store"
	redisstore "github.com/wardenauth/warden/internal/auth/store/drivers/redis"
	"github.com/wardenauth/warden/internal/auth/userdir"
	sqlitedir "github.com/wardenauth/warden/internal/auth/userdir/drivers/sqlite"
	"github.com/wardenauth/warden/pkg/cryptox"
	"github.com/wardenauth/warden/pkg/jwtx"
	"github.com/wardenauth/warden/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	tokenStore store.Store
	users      userdir.Store
	keyManager *jwtx.KeyManager
	publisher  events.Publisher

	// Services
	tokenService    *service.TokenService
	authService     *service.AuthService
	internalService *service.InternalAuthService
	dispatcher      *events.Dispatcher

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "warden",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initTokenStore(); err != nil {
		return nil, err
	}
	if err := app.initUserDirectory(); err != nil {
		return nil, err
	}

	// Load or generate the signing key
	keyManager, err := jwtx.NewFileKeyManager(jwtx.FileKeyManagerOptions{
		Path:     app.cfg.SigningKeyFile,
		RSABits:  app.cfg.RSABits,
		Issuer:   app.cfg.Issuer,
		Audience: app.cfg.Audience,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize signing keys: %w", err)
	}
	app.keyManager = keyManager

	app.initEvents()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("warden starting", "port", app.cfg.Port, "version", BuildVersion)

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

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down warden...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Flush and close the event publisher
	if err := app.publisher.Close(); err != nil {
		app.logger.Error("error closing event publisher", "error", err)
	}

	// Close the stores
	if err := app.tokenStore.Close(); err != nil {
		app.logger.Error("error closing token store", "error", err)
	}
	if err := app.users.Close(); err != nil {
		app.logger.Error("error closing user directory", "error", err)
		return err
	}

	app.logger.Info("warden stopped")
	return nil
}

// initTokenStore connects to Redis and verifies the connection.
func (app *Application) initTokenStore() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	st, err := redisstore.NewStore(ctx, redisstore.Config{
		Addr:     app.cfg.RedisAddr,
		Password: app.cfg.RedisPassword,
		DB:       app.cfg.RedisDB,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to token store: %w", err)
	}
	app.tokenStore = st

	app.logger.Info("token store connected", "addr", app.cfg.RedisAddr)
	return nil
}

// initUserDirectory opens the SQLite database and applies migrations.
func (app *Application) initUserDirectory() error {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	users, err := sqlitedir.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize user directory: %w", err)
	}
	app.users = users

	if err := users.ApplyMigrations(); err != nil {
		_ = users.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initEvents wires the domain event publisher. Without brokers configured,
// events land in the service log.
func (app *Application) initEvents() {
	if len(app.cfg.KafkaBrokers) == 0 {
		app.logger.Info("no kafka brokers configured, publishing events to the log")
		app.publisher = &events.LogPublisher{Logger: app.logger}
	} else {
		app.publisher = events.NewKafkaPublisher(app.cfg.KafkaBrokers, app.cfg.KafkaTopic)
		app.logger.Info("kafka event publisher enabled",
			"brokers", app.cfg.KafkaBrokers, "topic", app.cfg.KafkaTopic)
	}

	app.dispatcher = events.NewDispatcher(app.publisher)
}

// initServices initializes all business logic services.
func (app *Application) initServices() {
	app.tokenService = service.NewTokenService(
		app.keyManager,
		app.tokenStore,
		app.cfg.AccessTokenTTL,
		app.cfg.RefreshTokenTTL,
	)

	app.authService = service.NewAuthService(app.users, app.tokenService, app.dispatcher)
	app.internalService = service.NewInternalAuthService(app.tokenService, app.cfg.InternalClients)

	if len(app.cfg.InternalClients) == 0 {
		app.logger.Warn("no internal clients configured, service token endpoint will reject everything")
	}
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keyManager,
		BuildVersion,
		app.cfg.SecureCookies,
		app.tokenStore,
		app.users,
		app.logger,
	)

	// Wire services to router
	router.AuthService = app.authService
	router.TokenService = app.tokenService
	router.InternalService = app.internalService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
