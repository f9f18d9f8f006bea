package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/timmy/gustovivo/internal/api"
	"github.com/timmy/gustovivo/internal/config"
	"github.com/timmy/gustovivo/internal/logger"
	"github.com/timmy/gustovivo/internal/repository"
	"github.com/timmy/gustovivo/internal/service"
)

func main() {
	appLogger := logger.NewFromEnv(logger.LoadFromEnv("gustovivo-preview"))
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Support CONFIG_PATH environment variable for deployments
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	// History is optional; without it /api/v1/jobs answers 503
	var (
		jobRepo   *repository.JobRepository
		assetRepo *repository.AssetRepository
	)
	if cfg.Database.Enabled {
		db, err := repository.InitDB(&cfg.Database)
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to initialize database")
		}
		jobRepo = repository.NewJobRepository(db)
		assetRepo = repository.NewAssetRepository(db)
	}

	router := api.SetupRouter(
		service.NewPreviewService(nil),
		service.NewHistoryService(jobRepo, assetRepo),
		cfg.Output.Dir,
		&cfg.Server,
		appLogger,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.WithFields(logger.Fields{
			"port":       cfg.Server.Port,
			"mode":       cfg.Server.Mode,
			"images_dir": cfg.Output.Dir,
		}).Info("Starting preview server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
