package main

import (
	"fmt"
	"log"

	"einvois/internal/config"
	"einvois/internal/handler"
	"einvois/internal/ingest"
	"einvois/internal/port"
	"einvois/internal/repository/postgres"
	"einvois/internal/router"
	"einvois/internal/service"
	s3storage "einvois/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	reportRepo := postgres.NewBatchReportRepo(db)

	// Initialize storage
	var storage port.ObjectStorage
	if !cfg.S3.Disabled {
		storage, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	// Initialize services
	processingSvc := service.NewProcessingService(ingest.NewXLSXReader(), reportRepo, storage, cfg)

	// Initialize handlers
	batchH := handler.NewBatchHandler(processingSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(batchH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
