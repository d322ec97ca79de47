package dto

import (
	"strings"
	"time"

	"investmanager.com/types"

	"github.com/shopspring/decimal"
)

// Quantity holds a decimal exactly as the client sent it, quoted or not.
// Parsing is left to the transaction processor so a bad value is reported as
// an invalid amount rather than a malformed body.
type Quantity string

func (q *Quantity) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		*q = ""
		return nil
	}
	*q = Quantity(strings.Trim(s, `"`))
	return nil
}

type ExecuteTransactionRequest struct {
	Symbol          string   `json:"symbol" validate:"required,max=16"`
	Name            string   `json:"name" validate:"max=255"`
	TransactionType string   `json:"transaction_type"`
	Units           Quantity `json:"units" swaggertype:"string"`
	Amount          Quantity `json:"amount" swaggertype:"string"`
}

type TransactionResult struct {
	Transaction     types.Transaction `json:"transaction"`
	Investment      types.Position    `json:"investment"`
	PriceSource     string            `json:"price_source"`
	Value           decimal.Decimal   `json:"value"`
	ValueConverted  decimal.Decimal   `json:"value_converted"`
	Currency        string            `json:"currency"`
	ConvertedTo     string            `json:"converted_currency"`
	ConvertedString string            `json:"value_converted_display"`
}

// TransactionExecutedEvent is published to the broker after commit.
type TransactionExecutedEvent struct {
	Reference    string          `json:"reference"`
	AccountID    uint            `json:"account_id"`
	UserID       uint            `json:"user_id"`
	Symbol       string          `json:"symbol"`
	Type         string          `json:"transaction_type"`
	Units        decimal.Decimal `json:"units"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	Amount       decimal.Decimal `json:"amount"`
	ExecutedAt   time.Time       `json:"executed_at"`
}
