package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/SscSPs/atm_ledger/internal/adapters/flatfile"
	"github.com/SscSPs/atm_ledger/internal/core/services"
	"github.com/SscSPs/atm_ledger/internal/handlers"
	"github.com/SscSPs/atm_ledger/internal/middleware"
	"github.com/SscSPs/atm_ledger/pkg/config"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		logger.Error("Failed to create data directory", slog.String("dir", cfg.DataDir), slog.String("error", err.Error()))
		os.Exit(1)
	}

	store := flatfile.NewStore(cfg.DataDir,
		flatfile.WithAccountFile(cfg.AccountFile),
		flatfile.WithTransactionFile(cfg.TransactionFile),
		flatfile.WithAccountRequestFile(cfg.AccountRequestFile),
		flatfile.WithCustomerFile(cfg.CustomerFile),
	)

	serviceContainer, err := services.NewServiceContainer(cfg, store)
	if err != nil {
		logger.Error("Failed to build services", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Unreadable lines are skipped; the bank still starts on whatever loaded.
	ctx := middleware.WithLogger(context.Background(), logger)
	if err := serviceContainer.Bank.Reload(ctx); err != nil {
		logger.Warn("Records loaded with errors", slog.String("error", err.Error()))
	}
	logger.Info("Records loaded", slog.String("dir", cfg.DataDir))

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterRoutes(r, cfg, serviceContainer); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
