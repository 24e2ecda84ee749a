// Package app wires configuration, storage, key material, services and the
// HTTP surface into a runnable identity service.
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

	httpapi "github.com/lanternmc/yggdrasil/internal/yggdrasil/http"
	"github.com/lanternmc/yggdrasil/internal/yggdrasil/keyring"
	"github.com/lanternmc/yggdrasil/internal/yggdrasil/service"
	"github.com/lanternmc/yggdrasil/internal/yggdrasil/store"
	redisstore "github.com/lanternmc/yggdrasil/internal/yggdrasil/store/drivers/redis"
	"github.com/lanternmc/yggdrasil/internal/yggdrasil/store/drivers/sqlite"
	"github.com/lanternmc/yggdrasil/pkg/cryptox"
	"github.com/lanternmc/yggdrasil/pkg/jwtx"
	"github.com/lanternmc/yggdrasil/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application encapsulates the identity service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db    *sqlite.Store
	keys  *keyring.Keyring
	joins store.ServerJoins

	authService    *service.AuthService
	playerService  *service.PlayerService
	certService    *service.CertificateService
	profileService *service.ProfileService
	sessionService *service.SessionService
	housekeeping   *service.Housekeeping

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "yggdrasil",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	keys, err := keyring.Load(cfg.KeysDir)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("load key material: %w", err)
	}
	app.keys = keys

	if err := app.initJoinBroker(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeeping.Start()

	app.logger.Info("yggdrasil starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

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

// Shutdown gracefully stops the HTTP server, housekeeping and storage.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down yggdrasil...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeeping.Stop()

	if closer, ok := app.joins.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			app.logger.Error("error closing join broker", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("yggdrasil stopped")
	return nil
}

func (app *Application) initDatabase() error {
	db, err := sqlite.New(app.cfg.DatabaseFile)
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

// initJoinBroker selects Redis when configured and the sqlite fallback
// otherwise. Joins are the only Redis consumer; everything else is sqlite.
func (app *Application) initJoinBroker() error {
	if app.cfg.RedisURL == "" {
		app.joins = sqlite.NewServerJoins(app.db)
		app.logger.Info("join broker using sqlite fallback")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	joins, err := redisstore.New(ctx, app.cfg.RedisURL, redisstore.DefaultTTL)
	if err != nil {
		return fmt.Errorf("failed to connect join broker: %w", err)
	}
	app.joins = joins
	app.logger.Info("join broker using redis")
	return nil
}

func (app *Application) initServices() {
	signer, err := jwtx.NewSigner(app.keys.SessionKey())
	if err != nil {
		// Load already validated the key; this cannot fire in practice.
		panic(err)
	}
	verifier := jwtx.NewVerifier(&app.keys.SessionKey().PublicKey, app.cfg.Issuer)

	app.authService = &service.AuthService{
		Store:     app.db,
		Signer:    signer,
		Verifier:  verifier,
		Issuer:    app.cfg.Issuer,
		AccessTTL: app.cfg.AccessTokenTTL,
	}
	app.playerService = &service.PlayerService{Store: app.db}
	app.certService = &service.CertificateService{Store: app.db, Keys: app.keys}
	app.profileService = &service.ProfileService{Store: app.db, Keys: app.keys}
	app.sessionService = &service.SessionService{
		Store:    app.db,
		Joins:    app.joins,
		Auth:     app.authService,
		Profiles: app.profileService,
	}
	app.housekeeping = &service.Housekeeping{
		Store:    app.db,
		Joins:    app.joins,
		Interval: app.cfg.HousekeepingInterval,
	}
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		BuildVersion,
		app.db,
		app.keys.AttestationPublicSPKI(),
		app.logger,
	)

	router.AuthService = app.authService
	router.PlayerService = app.playerService
	router.CertificateService = app.certService
	router.ProfileService = app.profileService
	router.SessionService = app.sessionService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
