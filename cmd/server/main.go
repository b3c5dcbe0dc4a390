package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/tmarlow/cashout-backend/internal/config"
	"github.com/tmarlow/cashout-backend/internal/httpapi"
	"github.com/tmarlow/cashout-backend/internal/hub"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx := context.Background()
	h := hub.NewHub(ctx, hub.Options{
		GameCapacity: cfg.GameCapacity,
		StartingCash: cfg.StartingCash,
		VerdictDelay: cfg.VerdictDelay,
		RevealDelay:  cfg.RevealDelay,
	}, logger.Named("hub"))

	// Build the router *with* the hub injected
	handler := httpapi.SetupRoutes(h, logger)

	server := &http.Server{Addr: cfg.ServerAddr, Handler: handler}

	go func() {
		logger.Info("listening", zap.String("addr", cfg.ServerAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	h.Inbox() <- hub.Shutdown{}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
}
