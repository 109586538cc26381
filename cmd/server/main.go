package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"orderdesk/internal/commons"
	"orderdesk/internal/config"
	"orderdesk/internal/infrastructure/logger"
	"orderdesk/internal/infrastructure/metrics"
	"orderdesk/internal/order"
	"orderdesk/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file; environment variables are used when empty")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx := context.Background()
	repo, closeStorage, err := order.OpenStorage(ctx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("opening order storage", zap.String("backend", cfg.Storage.Backend), zap.Error(err))
	}
	defer func() {
		if err := closeStorage(); err != nil {
			zapLogger.Error("closing order storage", zap.Error(err))
		}
	}()

	registry := metrics.NewRegistry()
	orderCtrl, err := order.NewModule(repo, registry, zapLogger)
	if err != nil {
		zapLogger.Fatal("building order module", zap.Error(err))
	}

	router := server.NewRouter(orderCtrl, registry.Handler(), zapLogger)

	srv := server.New(cfg.Server.Port, router, zapLogger)

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(runCtx); err != nil {
		zapLogger.Error("server error", zap.Error(err))
		return
	}

	zapLogger.Info("server stopped gracefully")
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return commons.LoadConfig(path)
	}
	return config.Load()
}
