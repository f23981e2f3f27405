package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apphttp "transaction_dashboard_backend/internal/http"
	"transaction_dashboard_backend/internal/http/router"
	"transaction_dashboard_backend/internal/transactions"
	"transaction_dashboard_backend/platform/config"
	"transaction_dashboard_backend/platform/logger"
	"transaction_dashboard_backend/platform/retry"
	"transaction_dashboard_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr, "recordStore", cfg.GetRecordStoreURL())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	transactionsModule := transactions.NewModule(cfg, val, log)

	// The API serves without the store and reports it through readiness.
	if err := retry.Do(ctx, log, "record store ping", 3, time.Second, func() error {
		return transactionsModule.Store().Ping(ctx)
	}); err != nil {
		log.Warn("record store unreachable at startup", "error", err)
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:  cfg,
		Logger:  log,
		Health:  transactionsModule.Store(),
		Modules: []apphttp.Module{transactionsModule},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 5 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
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
