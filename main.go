package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/nitropay-io/nitropay-go/pkg/config"
	"github.com/nitropay-io/nitropay-go/pkg/issuer"
	"github.com/nitropay-io/nitropay-go/pkg/logger"
	"github.com/nitropay-io/nitropay-go/pkg/provider"
	"github.com/nitropay-io/nitropay-go/pkg/server"
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.NewStdLogger(cfg.LoggerConfig.Coloring, cfg.LoggerConfig.Level)

	// Set up context with cancellation on SIGINT/SIGTERM
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gateway := provider.NewClient(cfg.ProviderAPIBase, cfg.ProviderPublic, cfg.ProviderSecret, appLogger)
	iss := issuer.New(gateway, appLogger)
	srv := server.NewServer(cfg, iss, gateway, appLogger)

	// Set up signal handling for graceful shutdown
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalCh
		appLogger.Notice("Received termination signal, shutting down gracefully...")
		cancel()
	}()

	if err := srv.Start(ctx); err != nil {
		log.Fatalf("Merchant server error: %v", err)
	}
}
