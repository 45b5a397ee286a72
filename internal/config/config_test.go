package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	cfg := Default()
	cfg.QUOTER_ADDRESS = "0x2222222222222222222222222222222222222222"
	cfg.STEP_BPS = 25
	cfg.QUOTE_TIMEOUT = 3 * time.Second
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("STEP_BPS: 10\nQUOTE_TIMEOUT: 2s\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.STEP_BPS)
	assert.Equal(t, 2*time.Second, cfg.QUOTE_TIMEOUT)
	assert.Equal(t, Default().MAX_ITERATIONS, cfg.MAX_ITERATIONS)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("STEP_BPS: [\n"), 0644))
	_, err := Load(path)
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("RPC_URL", "https://rpc.example")
	t.Setenv("MAX_ITERATIONS", "12")
	t.Setenv("SEARCH_TIMEOUT", "30s")
	t.Setenv("QUOTE_CACHE_SIZE", "1024")
	t.Setenv("DEBUG", "1")
	t.Setenv("STEP_BPS", "not-a-number")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Equal(t, "https://rpc.example", cfg.RPC_URL)
	assert.Equal(t, 12, cfg.MAX_ITERATIONS)
	assert.Equal(t, 30*time.Second, cfg.SEARCH_TIMEOUT)
	assert.Equal(t, 1024, cfg.QUOTE_CACHE_SIZE)
	assert.True(t, cfg.DEBUG)
	assert.Equal(t, 50, cfg.STEP_BPS)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.RECIPIENT = "0xnothex"
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.STEP_BPS = 0
	require.Error(t, cfg.Validate())

	cfg = Default()
	require.Error(t, cfg.ValidateQuoting(), "quoter address is required")

	cfg.QUOTER_ADDRESS = "0x0000000000000000000000000000000000000000"
	require.Error(t, cfg.ValidateQuoting())

	cfg.QUOTER_ADDRESS = "0x2222222222222222222222222222222222222222"
	require.NoError(t, cfg.ValidateQuoting())

	cfg.RPC_URL = ""
	require.Error(t, cfg.ValidateQuoting())
}
