package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)
	for _, k := range []string{"CONFIG_FILE", "CONVERSION_RATE", "MARKET_PROVIDER", "SNAPSHOT_SYMBOLS", "JWT_TEST_MODE"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenPath)
	assert.Equal(t, "alphavantage", cfg.MarketProvider)
	assert.Equal(t, 5*time.Second, cfg.MarketTimeout)
	assert.True(t, cfg.ConversionRate.Equal(decimal.NewFromInt(140)))
	assert.Equal(t, "USD", cfg.SourceCurrency)
	assert.Equal(t, "KES", cfg.TargetCurrency)
	assert.Contains(t, cfg.SnapshotSymbols, "AAPL")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
market_provider: finnhub
market_timeout: 2s
conversion_rate: "150"
snapshot_symbols: [IBM]
`), 0644))

	t.Setenv("CONFIG_FILE", file)
	t.Setenv("CONVERSION_RATE", "")
	t.Setenv("SNAPSHOT_SYMBOLS", "")
	t.Setenv("JWT_TEST_MODE", "")
	t.Setenv("MARKET_PROVIDER", "snapshot")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "snapshot", cfg.MarketProvider)
	assert.Equal(t, 2*time.Second, cfg.MarketTimeout)
	assert.True(t, cfg.ConversionRate.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, []string{"IBM"}, cfg.SnapshotSymbols)
}

func TestLoad_RejectsBadRate(t *testing.T) {
	chdirTemp(t)
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("CONVERSION_RATE", "zero")

	_, err := Load()
	assert.Error(t, err)
}

func TestSplitSymbols(t *testing.T) {
	assert.Equal(t, []string{"AAPL", "MSFT"}, splitSymbols(" aapl, ,msft "))
}

func TestSigningKey(t *testing.T) {
	cfg := &Config{}
	_, err := cfg.SigningKey()
	assert.Error(t, err)

	cfg.JWTSecret = "c2VjcmV0LWtleQ=="
	key, err := cfg.SigningKey()
	require.NoError(t, err)
	assert.Equal(t, []byte("secret-key"), key)

	cfg.JWTSecret = "not base64!"
	_, err = cfg.SigningKey()
	assert.Error(t, err)
}
