package portfolio

import (
	"path/filepath"
	"regexp"
	"sync"
	"testing"
	"time"

	"investmanager.com/db"
	"investmanager.com/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.Open("SQLITE", filepath.Join(t.TempDir(), "portfolio.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	return conn
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestGetOrCreateIsIdempotent(t *testing.T) {
	conn := setupDB(t)
	store := NewPositionStore()

	first, created, err := store.GetOrCreate(conn, 1, "aapl", "", dec("100"))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "AAPL", first.Symbol)
	assert.Equal(t, "AAPL", first.Name)
	assert.True(t, first.Units.IsZero())

	second, created, err := store.GetOrCreate(conn, 1, "AAPL", "", dec("120"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.PricePerUnit.Equal(dec("100")), "existing row is not overwritten")

	other, created, err := store.GetOrCreate(conn, 2, "AAPL", "", dec("100"))
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestGetOrCreateConcurrentUniqueness(t *testing.T) {
	conn := setupDB(t)
	store := NewPositionStore()

	var wg sync.WaitGroup
	ids := make([]uint, 8)
	errs := make([]error, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = conn.Transaction(func(tx *gorm.DB) error {
				pos, _, err := store.GetOrCreate(tx, 7, "MSFT", "Microsoft", dec("299.50"))
				if err != nil {
					return err
				}
				ids[i] = pos.ID
				return nil
			})
		}(i)
	}
	wg.Wait()

	for i := range ids {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	var count int64
	require.NoError(t, conn.Model(&types.Position{}).Where("account_id = ? AND symbol = ?", 7, "MSFT").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAdjust(t *testing.T) {
	store := NewPositionStore()
	pos := &types.Position{Units: dec("10")}

	require.NoError(t, store.Adjust(pos, dec("-10")))
	assert.True(t, pos.Units.IsZero())

	err := store.Adjust(pos, dec("-0.00000001"))
	assert.ErrorIs(t, err, types.ErrInsufficientUnits)
	assert.Equal(t, "Not enough units to sell.", types.MessageOf(err))
	assert.True(t, pos.Units.IsZero(), "failed adjust leaves units untouched")
}

func TestGetOrCreateLocksRowOnPostgres(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	conn, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "positions"`) + `.*ON CONFLICT \("account_id","symbol"\) DO NOTHING`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "positions" WHERE account_id = $1 AND symbol = $2`) + `.*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "account_id", "symbol", "name", "price_per_unit", "units"}).
			AddRow(3, 1, "AAPL", "AAPL", "100", "10"))

	pos, created, err := NewPositionStore().GetOrCreate(conn, 1, "AAPL", "", dec("100"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, uint(3), pos.ID)
	assert.True(t, pos.Units.Equal(dec("10")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerAppendAndQuery(t *testing.T) {
	conn := setupDB(t)
	ledger := NewLedger()
	base := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	for i, acct := range []uint{1, 2, 1} {
		require.NoError(t, ledger.Append(conn, &types.Transaction{
			UserID:       9,
			AccountID:    acct,
			Amount:       dec("10"),
			PricePerUnit: dec("5"),
			Units:        dec("2"),
			Type:         types.Buy,
			CreatedAt:    base.Add(time.Duration(i) * 24 * time.Hour),
		}))
	}

	all, err := ledger.Query(conn, Filter{AccountIDs: []uint{1}})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.True(t, all[0].CreatedAt.Before(all[1].CreatedAt))
	assert.Len(t, all[0].Reference, 26)
	assert.NotEqual(t, all[0].Reference, all[1].Reference)

	ranged, err := ledger.Query(conn, Filter{From: base.Add(12 * time.Hour), To: base.Add(36 * time.Hour)})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, uint(2), ranged[0].AccountID)

	none, err := ledger.Query(conn, Filter{AccountIDs: []uint{}})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLedgerRejectsUpdates(t *testing.T) {
	conn := setupDB(t)
	ledger := NewLedger()

	txn := &types.Transaction{UserID: 1, AccountID: 1, Amount: dec("1"), PricePerUnit: dec("1"), Units: dec("1"), Type: types.Buy}
	require.NoError(t, ledger.Append(conn, txn))

	err := conn.Model(txn).Update("amount", dec("999")).Error
	assert.ErrorIs(t, err, types.ErrImmutableTransaction)

	require.NoError(t, ledger.DeleteForAccount(conn, 1))
	rows, err := ledger.Query(conn, Filter{})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestLockTableSameKeySameMutex(t *testing.T) {
	table := NewLockTable()
	assert.Same(t, table.For(1, "AAPL"), table.For(1, "AAPL"))
	assert.NotSame(t, table.For(1, "AAPL"), table.For(2, "AAPL"))
	assert.NotSame(t, table.For(1, "AAPL"), table.For(1, "MSFT"))
}
