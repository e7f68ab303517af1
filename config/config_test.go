package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "config.json", `{}`))
	require.NoError(t, err)

	assert.Equal(t, solana.WrappedSol.String(), cfg.WrappedNativeMint)
	assert.Equal(t, uint64(DefaultSlippageBps), cfg.SlippageBps)
	assert.Equal(t, DefaultWorkers, cfg.Workers)
	assert.False(t, cfg.DebugLogging)

	mint, err := cfg.WrappedNativeMintKey()
	require.NoError(t, err)
	assert.Equal(t, solana.WrappedSol, mint)
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
slippage_bps: 250
debug_logging: true
snapshot_path: /tmp/snapshot.json
workers: 8
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, uint64(250), cfg.SlippageBps)
	assert.True(t, cfg.DebugLogging)
	assert.Equal(t, "/tmp/snapshot.json", cfg.SnapshotPath)
	assert.Equal(t, 8, cfg.Workers)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("STRATA_SLIPPAGE_BPS", "50")
	t.Setenv("STRATA_WORKERS", "2")

	cfg, err := LoadConfig(writeConfig(t, "config.json", `{"slippage_bps": 300}`))
	require.NoError(t, err)
	assert.Equal(t, uint64(50), cfg.SlippageBps)
	assert.Equal(t, 2, cfg.Workers)

	cfg, err = LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, uint64(50), cfg.SlippageBps)
}

func TestLoadConfigRejects(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "config.json", `{"slippage_bps": 10001}`))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "config.json", `{"workers": 0}`))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "config.json", `{"wrapped_native_mint": "nope"}`))
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
