package market

import (
	"context"
	"fmt"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"
	"github.com/shopspring/decimal"
)

type Finnhub struct {
	api *finnhub.DefaultApiService
}

func NewFinnhub(apiKey string) *Finnhub {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	return newFinnhub(cfg)
}

func newFinnhub(cfg *finnhub.Configuration) *Finnhub {
	return &Finnhub{api: finnhub.NewAPIClient(cfg).DefaultApi}
}

func (f *Finnhub) Name() string { return "finnhub" }

func (f *Finnhub) Quote(ctx context.Context, symbol string) (decimal.Decimal, error) {
	quote, _, err := f.api.Quote(ctx).Symbol(symbol).Execute()
	if err != nil {
		return decimal.Zero, fmt.Errorf("finnhub %s: %w", symbol, err)
	}
	if !quote.HasC() {
		return decimal.Zero, fmt.Errorf("finnhub %s: no current price", symbol)
	}
	// Finnhub answers unknown symbols with an all-zero quote.
	if quote.GetC() == 0 && quote.GetPc() == 0 {
		return decimal.Zero, fmt.Errorf("finnhub %s: unknown symbol", symbol)
	}
	return decimal.NewFromFloat32(quote.GetC()), nil
}
