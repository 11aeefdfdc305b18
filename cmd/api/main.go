package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/user/listings-service/internal/app"
	"github.com/user/listings-service/internal/delivery/http/handler"
	"github.com/user/listings-service/internal/delivery/http/router"
	"github.com/user/listings-service/pkg/config"
	"github.com/user/listings-service/pkg/logger"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}

	// --- Logger ---
	log, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	// --- Services ---
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	a, err := app.New(ctx, cfg, log)
	cancel()
	if err != nil {
		log.Fatal("could not initialize services", zap.Error(err))
	}
	defer a.Close()

	log.Info("listings service configured",
		zap.String("mode", cfg.FinnMode),
		zap.String("default_org_id", cfg.DefaultOrgID),
		zap.Bool("api_key_set", cfg.FinnAPIKey != ""),
		zap.Bool("browser_fetch", cfg.FetchBrowser),
		zap.Bool("mail_configured", cfg.MailConfigured()),
	)

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(a.Listings, a.Cars, a.Contact, a.Runs, a.HealthChecks, log.Named("http"))
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router.New(apiHandler, cfg.CORSOrigin, log.Named("http")),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("could not start server", zap.Error(err))
		}
	}()
	log.Info("server started", zap.String("port", cfg.ServerPort))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	log.Info("server exiting")
}
