package dto

import (
	"time"

	"investmanager.com/types"

	"github.com/shopspring/decimal"
)

type PositionValue struct {
	types.Position
	Value decimal.Decimal `json:"value"`
}

type PortfolioSummary struct {
	TotalValue          decimal.Decimal `json:"total_value"`
	TotalValueConverted decimal.Decimal `json:"total_value_converted"`
	TotalValueDisplay   string          `json:"total_value_display"`
	ConvertedDisplay    string          `json:"total_value_converted_display"`
	Currency            string          `json:"currency"`
	ConvertedCurrency   string          `json:"converted_currency"`
	Positions           []PositionValue `json:"investments"`
}

type UserReport struct {
	Username              string              `json:"username"`
	Transactions          []types.Transaction `json:"transactions"`
	TotalInvestments      decimal.Decimal     `json:"total_investments"`
	TotalInvestmentsInKES decimal.Decimal     `json:"total_investments_in_kes"`
	ConvertedDisplay      string              `json:"total_investments_display"`
}

type PriceResponse struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
	Source string          `json:"source"`
	AsOf   time.Time       `json:"as_of"`
}
