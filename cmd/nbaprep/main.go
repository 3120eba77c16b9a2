package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/courtmetrics/nbaprep/internal/config"
	"github.com/courtmetrics/nbaprep/internal/preprocess"
	"github.com/courtmetrics/nbaprep/internal/report"
	"github.com/courtmetrics/nbaprep/internal/source"
	"github.com/courtmetrics/nbaprep/pkg/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Create logger
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	zapLogger, err := logger.NewLogger(logLevel, os.Getenv("LOG_FORMAT"))
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Fetch the raw dataset into the local cache
	fetcher := source.NewFetcher(source.Config{
		DataDir: cfg.Source.DataDir,
		URL:     cfg.Source.DatasetURL,
		File:    cfg.Source.DatasetFile,
		Timeout: cfg.Source.DownloadTimeout,
	}, zapLogger)
	path, err := fetcher.Ensure(context.Background())
	if err != nil {
		zapLogger.Fatal("Failed to fetch dataset", zap.Error(err))
	}

	// Run the preprocessing pipeline
	features, target, err := preprocess.NewPipeline(zapLogger).Run(path)
	if err != nil {
		zapLogger.Fatal("Failed to preprocess dataset", zap.Error(err))
	}

	summary := report.Summarize(path, features, target)
	zapLogger.Info("Run summary",
		zap.String("run_id", summary.RunID),
		zap.String("dataset", summary.Dataset),
		zap.Int("rows", summary.Rows),
		zap.Int("features", summary.Features),
		zap.String("target", summary.Target),
		zap.Float64("target_min", summary.TargetMin),
		zap.Float64("target_max", summary.TargetMax))

	if cfg.Output.PreviewRows > 0 {
		fmt.Println(report.Preview(features, cfg.Output.PreviewRows))
	}

	if cfg.Output.Dir != "" {
		if err := writeOutputs(cfg.Output.Dir, features, target); err != nil {
			zapLogger.Fatal("Failed to write outputs", zap.Error(err))
		}
		zapLogger.Info("Outputs written",
			zap.String("dir", cfg.Output.Dir),
			zap.Strings("files", []string{"features.csv", "target.csv"}))
	}
}

func writeOutputs(dir string, features *preprocess.Features, target *preprocess.Target) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	ff, err := os.Create(filepath.Join(dir, "features.csv"))
	if err != nil {
		return err
	}
	defer ff.Close()
	if err := report.WriteFeaturesCSV(ff, features); err != nil {
		return err
	}

	tf, err := os.Create(filepath.Join(dir, "target.csv"))
	if err != nil {
		return err
	}
	defer tf.Close()
	return report.WriteTargetCSV(tf, target)
}
