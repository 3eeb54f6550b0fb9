// @title        Pawgrammers Pets API
// @version      1.0
// @description  CRUD over the pet collection managed by the admin dashboard.
// @BasePath     /
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"pawgrammers/internal/adapters/auth/odin"
	pg "pawgrammers/internal/adapters/storage/postgres"
	"pawgrammers/internal/adapters/storage/sqlite"
	"pawgrammers/internal/domain/pets"
	"pawgrammers/internal/platform/config"
	"pawgrammers/internal/platform/logger"
	"pawgrammers/internal/ports/auth"
	"pawgrammers/internal/router"
)

func main() {
	cfg := config.LoadAPI()
	log := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, App: cfg.AppName})
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Error("server error", map[string]any{"err": err})
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(cfg config.API, log logger.Logger) error {
	repo, closeDB, err := openStorage(cfg, log)
	if err != nil {
		return err
	}
	defer closeDB()

	var verifier auth.AuthVerifier // nil => modo dev
	if cfg.OdinBaseURL != "" && cfg.OdinAPIKey != "" {
		verifier = odin.NewVerifier(odin.NewClient(odin.Config{BaseURL: cfg.OdinBaseURL, APIKey: cfg.OdinAPIKey}))
		log.Info("auth enabled", map[string]any{"provider": "odin"})
	} else {
		log.Warn("auth disabled (dev mode)", nil)
	}

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: router.NewRouter(router.Options{
			AuthVerifier:   verifier,
			PetRepo:        repo,
			Log:            log,
			RateLimitRPS:   cfg.RateLimitRPS,
			RateLimitBurst: cfg.RateLimitBurst,
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting server", map[string]any{"addr": cfg.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down", nil)
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// openStorage: DB_DSN (postgres) > SQLITE_PATH (sqlite) > in-memory (repo nil).
func openStorage(cfg config.API, log logger.Logger) (pets.Repository, func(), error) {
	noop := func() {}

	var (
		db   *sql.DB
		repo pets.Repository
		err  error
	)
	switch {
	case cfg.DSN != "":
		db, err = pg.Open(cfg.DSN)
		if err != nil {
			return nil, noop, err
		}
		repo = pg.NewPetsRepo(db)
		log.Info("storage", map[string]any{"driver": "postgres"})
	case cfg.SQLitePath != "":
		db, err = sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		repo = sqlite.NewPetsRepo(db)
		log.Info("storage", map[string]any{"driver": "sqlite", "path": cfg.SQLitePath})
	default:
		log.Info("storage", map[string]any{"driver": "memory"})
		return nil, noop, nil
	}

	return repo, func() { _ = db.Close() }, nil
}
