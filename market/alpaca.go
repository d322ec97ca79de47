package market

import (
	"context"
	"fmt"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/shopspring/decimal"
)

type Alpaca struct {
	client *marketdata.Client
}

// NewAlpaca falls back to the APCA_* environment variables when the keys are
// empty.
func NewAlpaca(keyID, secret string) *Alpaca {
	return &Alpaca{client: marketdata.NewClient(marketdata.ClientOpts{
		APIKey:    keyID,
		APISecret: secret,
	})}
}

func (a *Alpaca) Name() string { return "alpaca" }

func (a *Alpaca) Quote(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}
	trade, err := a.client.GetLatestTrade(symbol, marketdata.GetLatestTradeRequest{})
	if err != nil {
		return decimal.Zero, fmt.Errorf("alpaca %s: %w", symbol, err)
	}
	if trade == nil {
		return decimal.Zero, fmt.Errorf("alpaca %s: no trade", symbol)
	}
	return decimal.NewFromFloat(trade.Price), nil
}
