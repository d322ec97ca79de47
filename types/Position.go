package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is the current holding of one symbol inside one account.
// (AccountID, Symbol) is unique; quantity is adjusted in place.
type Position struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	AccountID       uint            `gorm:"not null;uniqueIndex:idx_position_account_symbol" json:"account"`
	Symbol          string          `gorm:"size:16;not null;uniqueIndex:idx_position_account_symbol" json:"symbol"`
	Name            string          `gorm:"size:255" json:"name"`
	PricePerUnit    decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"price_per_unit"`
	Units           decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"units"`
	TransactionType TransactionType `gorm:"size:4" json:"transaction_type"`
	CreatedAt       time.Time       `gorm:"index" json:"transaction_date"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (Position) TableName() string {
	return "positions"
}

func (p Position) TotalValue() decimal.Decimal {
	return p.Units.Mul(p.PricePerUnit)
}
