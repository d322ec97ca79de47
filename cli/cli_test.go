package cli

import (
	"path/filepath"
	"testing"

	"investmanager.com/db"
	"investmanager.com/market"
	"investmanager.com/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTempWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DB_TYPE", "SQLITE")
	t.Setenv("DB_DSN", filepath.Join(dir, "cli.db"))
	t.Setenv("SNAPSHOT_PATH", filepath.Join(dir, "stock_prices.json"))
	t.Setenv("MARKET_PROVIDER", "snapshot")
	return dir
}

func TestCommandsRegistered(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "migrate", "snapshot", "promote"})
}

func TestSnapshotSeed(t *testing.T) {
	dir := useTempWorkspace(t)
	t.Cleanup(func() { snapshotSeed = false })

	rootCmd.SetArgs([]string{"snapshot", "--seed"})
	require.NoError(t, Execute())

	snap, err := market.LoadSnapshot(filepath.Join(dir, "stock_prices.json"))
	require.NoError(t, err)
	price, ok := snap.Lookup("AAPL")
	require.True(t, ok)
	assert.True(t, price.Equal(decimal.RequireFromString("175.50")))
}

func TestPromote(t *testing.T) {
	useTempWorkspace(t)

	rootCmd.SetArgs([]string{"migrate"})
	require.NoError(t, Execute())
	require.NoError(t, db.DB.Create(&types.User{Username: "ann", Email: "ann@example.com", PasswordHash: "x"}).Error)

	rootCmd.SetArgs([]string{"promote", "ann"})
	require.NoError(t, Execute())

	var user types.User
	require.NoError(t, db.DB.Where("username = ?", "ann").First(&user).Error)
	assert.True(t, user.IsAdmin)

	rootCmd.SetArgs([]string{"promote", "nobody"})
	assert.Error(t, Execute())
}
