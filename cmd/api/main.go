package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/baharkarakas/debtme-backend/internal/api"
	"github.com/baharkarakas/debtme-backend/internal/app"
	"github.com/baharkarakas/debtme-backend/internal/config"
	"github.com/baharkarakas/debtme-backend/internal/logger"
	"github.com/baharkarakas/debtme-backend/internal/metrics"
	"github.com/baharkarakas/debtme-backend/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := app.OpenStore(ctx, cfg)
	if err != nil {
		log.Error("store", "err", err)
		os.Exit(1)
	}
	defer closeStore()

	metrics.Init()
	wp := worker.NewPool(cfg.WorkerCount)
	deps := app.Services(cfg, store, wp)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Info("config",
		"env", cfg.Env,
		"store", cfg.Store,
		"otp_required", cfg.OTPRequired,
		"require_approved_link", cfg.RequireApprovedLink,
		"workers", cfg.WorkerCount,
	)

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "err", err)
	}
	// drain pending audit writes before the store closes
	wp.Stop()
}
