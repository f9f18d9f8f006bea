package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/timmy/gustovivo/internal/config"
	"github.com/timmy/gustovivo/internal/logger"
	"github.com/timmy/gustovivo/internal/output"
	"github.com/timmy/gustovivo/internal/repository"
	"github.com/timmy/gustovivo/internal/service"
	"github.com/timmy/gustovivo/internal/storage"
)

func main() {
	// Logs go to stderr so the summary on stdout stays clean
	appLogger := logger.NewFromEnv(logger.LoadFromEnv("gustovivo-genimages"))
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Parse command line flags
	configPath := flag.String("config", "", "Path to config file")
	outDir := flag.String("out", "", "Output directory (overrides output.dir)")
	seed := flag.Uint64("seed", 0, "Random seed, 0 seeds from the clock (overrides generate.seed)")
	target := flag.Int("target", 0, "Gallery size to pad up to (overrides generate.gallery_target)")
	workers := flag.Int("workers", 0, "Concurrent file writers (overrides generate.workers)")
	clean := flag.Bool("clean", false, "Remove gallery files not produced by this run")
	previews := flag.Bool("previews", false, "Also write PNG previews")
	publish := flag.Bool("publish", false, "Upload the generated tree to object storage")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	// Explicit flags win over config
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "out":
			cfg.Output.Dir = *outDir
		case "seed":
			cfg.Generate.Seed = *seed
		case "target":
			cfg.Generate.GalleryTarget = *target
		case "workers":
			cfg.Generate.Workers = *workers
		case "clean":
			cfg.Output.Clean = *clean
		case "previews":
			cfg.Generate.PNGPreviews = *previews
		case "publish":
			cfg.Storage.Enabled = *publish
		}
	})
	if err := cfg.Validate(); err != nil {
		appLogger.WithError(err).Fatal("Invalid configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize S3-compatible storage (supports R2, S3, MinIO)
	var objectStorage storage.ObjectStorage
	if cfg.Storage.Enabled {
		objectStorage, err = storage.NewStorage(&storage.S3Config{
			Type:      storage.StorageType(cfg.Storage.Type),
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			UseSSL:    cfg.Storage.UseSSL,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			PublicURL: cfg.Storage.PublicURL,
		})
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to initialize storage")
		}
	}

	// Initialize run history
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

	generateService := service.NewGenerateService(
		output.New(cfg.Output.Dir),
		objectStorage,
		jobRepo,
		assetRepo,
		appLogger,
		service.GenerateConfig{
			Seed:          cfg.Generate.Seed,
			GalleryTarget: cfg.Generate.GalleryTarget,
			Workers:       cfg.Generate.Workers,
			PNGPreviews:   cfg.Generate.PNGPreviews,
			Clean:         cfg.Output.Clean,
			StoragePrefix: cfg.Storage.Prefix,
		},
	)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("Received shutdown signal, canceling...")
		cancel()
	}()

	stats, err := generateService.Run(ctx)
	if err != nil {
		appLogger.WithError(err).Fatal("Generation failed")
	}

	if err := service.PrintSummary(os.Stdout, stats); err != nil {
		appLogger.WithError(err).Fatal("Failed to print summary")
	}
}
