package services

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Converter applies the fixed conversion rate used by every report.
type Converter struct {
	Rate decimal.Decimal
	From string
	To   string
}

func NewConverter(rate decimal.Decimal, from, to string) *Converter {
	return &Converter{Rate: rate, From: from, To: to}
}

// Convert rounds to cents.
func (c *Converter) Convert(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(c.Rate).Round(2)
}

// Display formats amount in currency code, for example KSh140,000.00.
func Display(amount decimal.Decimal, code string) string {
	cents := amount.Shift(2).Round(0).IntPart()
	return money.New(cents, code).Display()
}
