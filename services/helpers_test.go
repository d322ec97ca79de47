package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"investmanager.com/db"
	"investmanager.com/dto"
	"investmanager.com/market"
	"investmanager.com/permissions"
	"investmanager.com/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type staticPrices map[string]string

func (s staticPrices) FetchPrice(_ context.Context, symbol string) market.Result {
	p, ok := s[symbol]
	if !ok {
		return market.Result{Symbol: symbol, Err: types.GatewayError("price data not found")}
	}
	return market.Result{Symbol: symbol, Price: decimal.RequireFromString(p), Source: market.SourceLive, AsOf: time.Now()}
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) PublishTransactionExecuted(event dto.TransactionExecutedEvent) error {
	return m.Called(event).Error(0)
}

type fixture struct {
	db        *gorm.DB
	registry  *permissions.Registry
	converter *Converter
	processor *TransactionProcessor
	reports   *ReportService
	accounts  *AccountService
}

func newFixture(t *testing.T, prices PriceSource, notifier Notifier) *fixture {
	t.Helper()
	conn, err := db.Open("SQLITE", filepath.Join(t.TempDir(), "services.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))

	reg := permissions.NewRegistry(conn)
	conv := NewConverter(decimal.NewFromInt(140), "USD", "KES")
	return &fixture{
		db:        conn,
		registry:  reg,
		converter: conv,
		processor: NewTransactionProcessor(conn, reg, prices, conv, notifier),
		reports:   NewReportService(conn, reg, conv),
		accounts:  NewAccountService(conn, reg),
	}
}

func (f *fixture) user(t *testing.T, name string, admin bool) types.Actor {
	t.Helper()
	u := types.User{Username: name, Email: name + "@example.com", PasswordHash: "x", IsAdmin: admin}
	require.NoError(t, f.db.Create(&u).Error)
	return types.Actor{UserID: u.ID, Username: u.Username, IsAdmin: admin}
}

// account creates an account owned by owner and gives each extra actor the
// listed level as a member.
func (f *fixture) account(t *testing.T, name string, owner types.Actor, others map[types.Actor]types.AccessLevel) types.Account {
	t.Helper()
	acct, err := f.accounts.Create(owner, dto.CreateAccountRequest{Name: name, Permission: string(types.FullAccess)})
	require.NoError(t, err)
	for actor, level := range others {
		_, err := f.registry.Grant(types.Actor{IsAdmin: true}, actor.UserID, acct.ID, level)
		require.NoError(t, err)
	}
	return *acct
}

func (f *fixture) units(t *testing.T, accountID uint, symbol string) decimal.Decimal {
	t.Helper()
	var pos types.Position
	require.NoError(t, f.db.Where("account_id = ? AND symbol = ?", accountID, symbol).First(&pos).Error)
	return pos.Units
}

func (f *fixture) ledgerCount(t *testing.T, accountID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&types.Transaction{}).Where("account_id = ?", accountID).Count(&n).Error)
	return n
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
