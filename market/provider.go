// Package market resolves unit prices for ticker symbols from a live feed,
// falling back to a dated snapshot file.
package market

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

// Provider is a live price feed.
type Provider interface {
	Name() string
	Quote(ctx context.Context, symbol string) (decimal.Decimal, error)
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
