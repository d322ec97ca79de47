package services

import (
	"context"
	"testing"
	"time"

	"investmanager.com/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter(t *testing.T) {
	c := NewConverter(dec("140"), "USD", "KES")
	assert.True(t, c.Convert(dec("1000")).Equal(dec("140000")))
	assert.True(t, c.Convert(dec("0.015")).Equal(dec("2.1")))
	assert.Equal(t, "$1,000.00", Display(dec("1000"), "USD"))
	assert.Contains(t, Display(dec("140000"), "KES"), "140,000.00")
}

func TestPortfolioSummary(t *testing.T) {
	f := newFixture(t, staticPrices{"AAPL": "100", "IBM": "50"}, nil)
	owner := f.user(t, "owner", false)
	other := f.user(t, "other", false)
	growth := f.account(t, "Growth", owner, nil)
	income := f.account(t, "Income", owner, nil)
	foreign := f.account(t, "Foreign", other, nil)
	ctx := context.Background()

	_, err := f.processor.Execute(ctx, buy(owner, growth.ID, "AAPL", "10"))
	require.NoError(t, err)
	_, err = f.processor.Execute(ctx, buy(owner, income.ID, "IBM", "2"))
	require.NoError(t, err)
	_, err = f.processor.Execute(ctx, buy(other, foreign.ID, "AAPL", "100"))
	require.NoError(t, err)

	sum, err := f.reports.PortfolioSummary(owner)
	require.NoError(t, err)
	assert.True(t, sum.TotalValue.Equal(dec("1100")))
	assert.True(t, sum.TotalValueConverted.Equal(dec("154000")))
	assert.Len(t, sum.Positions, 2)
	assert.Equal(t, "USD", sum.Currency)

	empty, err := f.reports.PortfolioSummary(f.user(t, "nobody", false))
	require.NoError(t, err)
	assert.True(t, empty.TotalValue.IsZero())
	assert.Empty(t, empty.Positions)
}

func TestTransactionsForAllReadableAccounts(t *testing.T) {
	f := newFixture(t, staticPrices{"AAPL": "100"}, nil)
	owner := f.user(t, "owner", false)
	poster := f.user(t, "poster", false)
	a := f.account(t, "A", owner, nil)
	b := f.account(t, "B", owner, map[types.Actor]types.AccessLevel{poster: types.PostOnly})
	ctx := context.Background()

	_, err := f.processor.Execute(ctx, buy(owner, a.ID, "AAPL", "1"))
	require.NoError(t, err)
	_, err = f.processor.Execute(ctx, buy(poster, b.ID, "AAPL", "1"))
	require.NoError(t, err)

	all, err := f.reports.TransactionsFor(owner, nil, DateRange{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.False(t, all[1].CreatedAt.Before(all[0].CreatedAt))

	mine, err := f.reports.TransactionsFor(poster, nil, DateRange{})
	require.NoError(t, err)
	assert.Empty(t, mine, "post-only accounts are not readable")

	future, err := f.reports.TransactionsFor(owner, &a.ID, DateRange{From: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	assert.Empty(t, future)

	missing := uint(404)
	_, err = f.reports.TransactionsFor(owner, &missing, DateRange{})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestUserReport(t *testing.T) {
	f := newFixture(t, staticPrices{"AAPL": "100"}, nil)
	admin := f.user(t, "admin", true)
	owner := f.user(t, "owner", false)
	acct := f.account(t, "Growth", owner, nil)

	_, err := f.processor.Execute(context.Background(), buy(owner, acct.ID, "AAPL", "10"))
	require.NoError(t, err)

	_, err = f.reports.UserReport(owner, "owner", DateRange{})
	assert.ErrorIs(t, err, types.ErrAccessDenied)

	report, err := f.reports.UserReport(admin, "owner", DateRange{})
	require.NoError(t, err)
	assert.Len(t, report.Transactions, 1)
	assert.True(t, report.TotalInvestments.Equal(dec("1000")))
	assert.True(t, report.TotalInvestmentsInKES.Equal(dec("140000")))

	_, err = f.reports.UserReport(admin, "ghost", DateRange{})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestRealizedProfitFIFO(t *testing.T) {
	prices := staticPrices{"AAPL": "100"}
	f := newFixture(t, prices, nil)
	owner := f.user(t, "owner", false)
	acct := f.account(t, "Growth", owner, nil)
	ctx := context.Background()

	_, err := f.processor.Execute(ctx, buy(owner, acct.ID, "AAPL", "5"))
	require.NoError(t, err)
	prices["AAPL"] = "120"
	_, err = f.processor.Execute(ctx, buy(owner, acct.ID, "AAPL", "5"))
	require.NoError(t, err)
	prices["AAPL"] = "130"
	_, err = f.processor.Execute(ctx, sell(owner, acct.ID, "AAPL", "7"))
	require.NoError(t, err)

	profit, err := f.reports.RealizedProfit(owner, acct.ID)
	require.NoError(t, err)
	// 5 x (130-100) + 2 x (130-120)
	assert.True(t, profit.TotalProfit.Equal(dec("170")), profit.TotalProfit.String())
	require.Len(t, profit.PerInvestment, 1)
	assert.Equal(t, "AAPL", profit.PerInvestment[0].Symbol)
	assert.True(t, profit.TotalProfitConverted.Equal(dec("23800")))
}

func TestParseDateRange(t *testing.T) {
	r, err := ParseDateRange("2024-01-01", "2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, 2024, r.From.Year())
	assert.Equal(t, 31, r.To.Day())
	assert.Equal(t, 23, r.To.Hour())

	_, err = ParseDateRange("01/01/2024", "")
	assert.ErrorIs(t, err, types.ErrInvalidInput)

	_, err = ParseDateRange("2024-02-01", "2024-01-01")
	assert.ErrorIs(t, err, types.ErrInvalidInput)

	open, err := ParseDateRange("", "")
	require.NoError(t, err)
	assert.True(t, open.From.IsZero() && open.To.IsZero())
}

func TestInvestmentsBetween(t *testing.T) {
	f := newFixture(t, staticPrices{"AAPL": "100"}, nil)
	owner := f.user(t, "owner", false)
	acct := f.account(t, "Growth", owner, nil)

	_, err := f.processor.Execute(context.Background(), buy(owner, acct.ID, "AAPL", "1"))
	require.NoError(t, err)

	all, err := f.reports.Investments(owner)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	now := time.Now().UTC()
	inside, err := f.reports.InvestmentsBetween(owner, DateRange{From: now.Add(-time.Hour), To: now.Add(time.Hour)})
	require.NoError(t, err)
	assert.Len(t, inside, 1)

	outside, err := f.reports.InvestmentsBetween(owner, DateRange{From: now.Add(-48 * time.Hour), To: now.Add(-24 * time.Hour)})
	require.NoError(t, err)
	assert.Empty(t, outside)

	_, err = f.reports.InvestmentsBetween(owner, DateRange{From: now})
	assert.ErrorIs(t, err, types.ErrInvalidInput)
}
