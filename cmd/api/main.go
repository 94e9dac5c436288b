//go:build !lambda
// +build !lambda

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mintroai/payment-service/apps/api/server"
	"github.com/mintroai/payment-service/libs/go/config"
	"github.com/mintroai/payment-service/libs/go/constants"
	"github.com/mintroai/payment-service/libs/go/logger"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger is not configured yet
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.InitLoggerWithConfig(cfg.LoggerConfig())
	defer func() { _ = logger.Sync() }()

	if cfg.Stage == constants.ProdEnvironment {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handlers, err := server.InitializeHandlers(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize handlers", zap.Error(err))
	}
	defer handlers.Close()

	router := gin.New()
	router.Use(gin.Recovery())
	server.InitializeRoutes(router, handlers)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", zap.String("port", cfg.Port), zap.String("stage", cfg.Stage))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Server exiting")
}
