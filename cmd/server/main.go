package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coursebatch/internal/platform/config"
	"coursebatch/internal/platform/httpserver"
	"coursebatch/internal/platform/logger"
)

// main wires the enrollment service, starts the HTTP server and the
// reconciliation schedule, and shuts both down on SIGINT or SIGTERM.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApp(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialise enrollment service", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	scheduler, err := startReconciler(cfg.Enrollment.ReconcileSchedule, app.service, log)
	if err != nil {
		log.Error("invalid reconcile schedule", "schedule", cfg.Enrollment.ReconcileSchedule, "error", err)
		os.Exit(1)
	}

	srv := httpserver.New(cfg.Server.Addr, app.router)
	go func() {
		log.Info("starting coursebatch", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if scheduler != nil {
		<-scheduler.Stop().Done()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
