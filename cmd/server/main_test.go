package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/davegarvey/countries-api/internal/config"
)

func freeAddr(t *testing.T) string {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func writeConfig(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func clearEnv(t *testing.T) {
	for _, key := range []string{"PORT", "SERVER_ADDR", "DISABLED", "DATASET_PATH", "DATASET_URL", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(key, "")
	}
}

func TestRun_GracefulShutdown(t *testing.T) {
	clearEnv(t)
	addr := freeAddr(t)
	configPath := writeConfig(t, fmt.Sprintf("server:\n  addr: %q\nlog:\n  level: warn\n", addr))

	// Create a context that we can cancel to simulate a shutdown signal
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)

	var runErr error
	go func() {
		defer wg.Done()
		runErr = run(ctx, []string{"-config", configPath})
	}()

	var flagGlyph string
	serverIsReady := false
	for i := 0; i < 20; i++ {
		resp, err := http.Get("http://" + addr + "/countries/US/flag")
		if err == nil {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			flagGlyph = string(body)
			serverIsReady = true
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	require.True(t, serverIsReady, "Server did not start in time")
	assert.Equal(t, "🇺🇸", flagGlyph)

	// Trigger the graceful shutdown by canceling the context
	cancel()
	wg.Wait()

	assert.NoError(t, runErr, "Expected a clean shutdown")
}

func TestRun_InvalidConfig(t *testing.T) {
	clearEnv(t)
	configPath := writeConfig(t, "log:\n  level: shouting\n")

	err := run(context.Background(), []string{"-config", configPath})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestRun_UnknownFlag(t *testing.T) {
	err := run(context.Background(), []string{"-nope"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse flags")
}

func TestRun_MissingDatasetFile(t *testing.T) {
	clearEnv(t)
	configPath := writeConfig(t, "dataset:\n  path: /does/not/exist.json\n")

	err := run(context.Background(), []string{"-config", configPath})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open dataset")
}

func TestLoadDataset_Sources(t *testing.T) {
	logger := zap.NewNop()
	const body = `[{"name":"Kenya","code":"KE","alpha3Code":"KEN","capital":"Nairobi","region":"Africa","subregion":"Eastern Africa","population":53010000,"languages":["Swahili","English"],"currency":"KES","flag":"🇰🇪","callingCode":"+254"}]`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "countries.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	base := config.DefaultConfig().Dataset

	t.Run("url", func(t *testing.T) {
		cfg := base
		cfg.URL = server.URL
		cfg.Path = "/ignored.json"
		ds, err := loadDataset(context.Background(), cfg, logger)
		require.NoError(t, err)
		assert.Equal(t, 1, ds.Len())
	})

	t.Run("path", func(t *testing.T) {
		cfg := base
		cfg.Path = path
		ds, err := loadDataset(context.Background(), cfg, logger)
		require.NoError(t, err)
		assert.Equal(t, "Kenya", ds.At(0).Name)
	})

	t.Run("embedded", func(t *testing.T) {
		ds, err := loadDataset(context.Background(), base, logger)
		require.NoError(t, err)
		assert.Greater(t, ds.Len(), 1)
	})
}
