package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "transaction_dashboard_backend/internal/http"
	"transaction_dashboard_backend/internal/http/router"
	"transaction_dashboard_backend/internal/recordstore"
	"transaction_dashboard_backend/internal/recordstore/migrations"
	"transaction_dashboard_backend/platform/config"
	"transaction_dashboard_backend/platform/db"
	"transaction_dashboard_backend/platform/logger"
	"transaction_dashboard_backend/platform/retry"
	"transaction_dashboard_backend/platform/validator"
)

// storeRouterConfig serves the store on its own address. The API fans every
// list request out to the store from a single IP, so per-IP limits are off.
type storeRouterConfig struct {
	*config.Config
}

func (c storeRouterConfig) GetHTTPAddr() string      { return c.GetStoreHTTPAddr() }
func (c storeRouterConfig) GetRateLimitRPS() float64 { return 0 }

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	if cfg.GetDatabaseURL() == "" {
		panic("DATABASE_URL is required")
	}

	log := logger.New(cfg.Env)
	log.Info("starting record store", "env", cfg.Env, "addr", cfg.GetStoreHTTPAddr(), "delay", cfg.GetStoreDelay())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := retry.Do(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS, ".")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := retry.Do(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	routerCfg := storeRouterConfig{Config: cfg}
	app := &apphttp.App{
		Config:  routerCfg,
		Logger:  log,
		Health:  db.NewPoolAdapter(pool),
		Modules: []apphttp.Module{recordstore.NewModule(pool, cfg, validator.New(), log)},
	}

	srv := &http.Server{
		Addr:              routerCfg.GetHTTPAddr(),
		Handler:           router.New(app),
		ReadHeaderTimeout: 5 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("record store listening", "addr", srv.Addr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}
