package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vehicle-rental-admin/internal/config"
	"vehicle-rental-admin/internal/logger"
	"vehicle-rental-admin/internal/mockapi"
	"vehicle-rental-admin/internal/security"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	addr := flag.String("addr", "", "Listen address, overrides mock_api host and port")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *addr == "" {
		*addr = cfg.GetMockAPIAddress()
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting mock rental API...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)

	tokens := security.NewTokenManager(cfg.MockAPI.JWTSecret, security.DefaultTokenTTL)
	backend := mockapi.NewBackend()
	if cfg.MockAPI.Seed {
		if err := backend.Seed(); err != nil {
			logger.Error("Failed to seed mock API", "error", err)
			log.Fatalf("Failed to seed mock API: %v", err)
		}
		logger.Info("Mock API seeded",
			"admin", mockapi.SeedAdminLogin, "branch_admin", mockapi.SeedBranchLogin, "customer", mockapi.SeedCustomerLogin)
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mockapi.NewServer(backend, tokens),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Mock API listening", "address", *addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down mock API...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Shutdown failed", "error", err)
	}
	logger.Info("Mock API stopped. Goodbye!")
}
