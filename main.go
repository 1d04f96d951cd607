package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/swetasamaddar-clear/document-finder/internal/config"
	"github.com/swetasamaddar-clear/document-finder/internal/server"
	"github.com/swetasamaddar-clear/document-finder/pkg/logger"
)

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	// .env may carry LOG_LEVEL; it is only visible after LoadConfig.
	logger.Init(cfg.LogLevel)
	logger.Infof("config loaded: store=%s redis=%v rate_limit=%v", cfg.Store.Backend, cfg.Redis.Addr() != "", cfg.RateLimit.Enabled)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := server.New(ctx, cfg)
	if err != nil {
		logger.Fatalf("startup failed: %v", err)
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		logger.Errorf("server error: %v", err)
		app.Close()
		os.Exit(1)
	}
}
