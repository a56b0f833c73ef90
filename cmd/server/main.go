package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/api"
	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/config"
	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/storage"
	"github.com/Lixing-Zhang/kart-challenge/orders-backend/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting orders api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"db_driver", cfg.Database.Driver,
		"log_level", cfg.LogLevel,
	)

	db, err := storage.Open(cfg.Database, cfg.LogLevel)
	if err != nil {
		log.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer storage.Close(db)

	if err := storage.Migrate(db, cfg.Database.Driver); err != nil {
		log.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}
	log.Info("database schema is up to date")

	router, err := api.NewRouter(db, cfg.Auth, log)
	if err != nil {
		log.Error("failed to build router", "error", err)
		os.Exit(1)
	}

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
