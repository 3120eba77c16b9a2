package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const sampleCSV = "full_name,rating\nLuka Doncic,94\n"

func TestFetcherEnsure(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(sampleCSV))
	}))
	defer server.Close()

	cfg := Config{
		DataDir: t.TempDir(),
		URL:     server.URL,
		File:    "nba2k-full.csv",
	}
	f := NewFetcher(cfg, zaptest.NewLogger(t))

	t.Run("Download", func(t *testing.T) {
		path, err := f.Ensure(context.Background())
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(cfg.DataDir, cfg.File), path)

		body, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, sampleCSV, string(body))
		assert.Equal(t, 1, requests)
	})

	t.Run("CacheHit", func(t *testing.T) {
		path, err := f.Ensure(context.Background())
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(cfg.DataDir, cfg.File), path)
		assert.Equal(t, 1, requests, "second call must not hit the network")
	})

	t.Run("NoTempFilesLeft", func(t *testing.T) {
		entries, err := os.ReadDir(cfg.DataDir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}

func TestFetcherEnsureErrors(t *testing.T) {
	t.Run("UnexpectedStatus", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		f := NewFetcher(Config{DataDir: t.TempDir(), URL: server.URL, File: "nba.csv"}, nil)
		_, err := f.Ensure(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status code: 404")
	})

	t.Run("ServerUnreachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		f := NewFetcher(Config{DataDir: t.TempDir(), URL: server.URL, File: "nba.csv"}, nil)
		_, err := f.Ensure(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to download dataset")
	})

	t.Run("CanceledContext", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(sampleCSV))
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		f := NewFetcher(Config{DataDir: t.TempDir(), URL: server.URL, File: "nba.csv"}, nil)
		_, err := f.Ensure(ctx)
		require.Error(t, err)
	})
}
