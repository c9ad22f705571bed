package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/quantex/fixgate/api"
	"github.com/quantex/fixgate/internal/config"
	"github.com/quantex/fixgate/internal/gateway"
	"github.com/quantex/fixgate/internal/risk"
	"github.com/quantex/fixgate/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load(os.Getenv("FIXGATE_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.NewLogger(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	limits, err := cfg.RiskLimits()
	if err != nil {
		zapLogger.Fatal("Invalid risk limits", zap.Error(err))
	}
	engine, err := risk.NewEngine(limits)
	if err != nil {
		zapLogger.Fatal("Failed to create risk engine", zap.Error(err))
	}
	zapLogger.Info("Risk engine initialized",
		zap.Int64("max_quantity", limits.MaxQuantity),
		zap.String("price_band_min", limits.PriceBandMin.String()),
		zap.String("price_band_max", limits.PriceBandMax.String()),
		zap.String("max_notional", limits.MaxNotional.String()),
		zap.Int64("max_position", limits.MaxPosition))

	journal, err := gateway.NewJournal(zapLogger, cfg.Journal.Path)
	if err != nil {
		zapLogger.Fatal("Failed to open event journal", zap.Error(err))
	}
	defer journal.Close()

	svc := gateway.NewService(zapLogger, engine, journal)
	server := api.NewServer(zapLogger, svc)

	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      server.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		zapLogger.Info("Starting API server", zap.String("addr", cfg.Addr()))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("API server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		zapLogger.Error("Forced shutdown", zap.Error(err))
	}
	if err := journal.Flush(); err != nil {
		zapLogger.Error("Failed to flush journal", zap.Error(err))
	}
}
