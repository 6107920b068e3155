package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcherPublishesReloadedConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("region: alpha\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w, err := NewWatcher(ctx, path, nil)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("region: beta\n"), 0o644))

	select {
	case cfg, ok := <-w.Updates():
		require.True(t, ok)
		require.Equal(t, "beta", cfg.Region)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}

func TestWatcherIgnoresInvalidRewrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("region: alpha\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w, err := NewWatcher(ctx, path, nil)
	require.NoError(t, err)

	// Missing required region: should be logged and dropped, not published.
	require.NoError(t, os.WriteFile(path, []byte("default_days: 2\n"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("region: gamma\n"), 0o644))

	select {
	case cfg, ok := <-w.Updates():
		require.True(t, ok)
		require.Equal(t, "gamma", cfg.Region)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for valid config reload")
	}
}
