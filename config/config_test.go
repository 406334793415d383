package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadChainConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "client_config.yml")
	require.NoError(t, os.WriteFile(path, []byte("chain_type: ethereum\ntimeout_seconds: 5\n"), 0o644))

	cfg, err := LoadChainConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "ethereum", cfg.ChainType)
	assert.Equal(t, 5, cfg.TimeoutSeconds)

	t.Run("timeout defaults when unset", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("chain_type: memory\n"), 0o644))
		cfg, err := LoadChainConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 30, cfg.TimeoutSeconds)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := LoadChainConfig(filepath.Join(dir, "nope.yml"))
		assert.Error(t, err)
	})
}

func TestLoadConfigDefaults(t *testing.T) {
	// An empty directory yields a runnable default configuration.
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Chain.ChainType)
	assert.NotEmpty(t, cfg.App.LedgerDir)
	assert.NotEmpty(t, cfg.App.QRBaseURL)
}

func TestLoadAppConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.yml")
	require.NoError(t, os.WriteFile(path, []byte("ledger_dir: /tmp/box\nqr_base_url: https://box.example/verify\n"), 0o644))

	cfg, err := LoadAppConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/box", cfg.LedgerDir)
	assert.Equal(t, "https://box.example/verify", cfg.QRBaseURL)
}
