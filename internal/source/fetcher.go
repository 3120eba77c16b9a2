package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Config defines where the raw dataset lives and where to cache it.
type Config struct {
	DataDir string
	URL     string
	File    string
	Timeout time.Duration
}

// Fetcher downloads the raw dataset once and serves it from the local cache
// afterwards.
type Fetcher struct {
	cfg    Config
	logger *zap.Logger
	client *http.Client
}

// NewFetcher creates a fetcher. A nil logger disables logging and a
// non-positive timeout falls back to two minutes.
func NewFetcher(cfg Config, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	return &Fetcher{
		cfg:    cfg,
		logger: logger,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Ensure returns the path of the cached dataset, downloading it first when
// the cache is empty. The download lands in a temporary file and is renamed
// into place, so a failed transfer never leaves a truncated cache entry.
func (f *Fetcher) Ensure(ctx context.Context) (string, error) {
	if err := os.MkdirAll(f.cfg.DataDir, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}

	path := filepath.Join(f.cfg.DataDir, f.cfg.File)
	if info, err := os.Stat(path); err == nil {
		f.logger.Info("dataset cached",
			zap.String("path", path),
			zap.Int64("bytes", info.Size()))
		return path, nil
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.cfg.URL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(f.cfg.DataDir, f.cfg.File+".download-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	written, err := io.Copy(tmp, resp.Body)
	if err != nil {
		tmp.Close()
		return "", fmt.Errorf("write dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("move dataset into cache: %w", err)
	}

	f.logger.Info("dataset downloaded",
		zap.String("url", f.cfg.URL),
		zap.String("path", path),
		zap.Int64("bytes", written),
		zap.Duration("elapsed", time.Since(start)))
	return path, nil
}
