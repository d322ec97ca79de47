package types

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionType string

const (
	Buy  TransactionType = "buy"
	Sell TransactionType = "sell"
)

func (t TransactionType) Valid() bool {
	return t == Buy || t == Sell
}

// ErrImmutableTransaction is returned by the gorm update hook. Ledger
// corrections are recorded as new offsetting transactions.
var ErrImmutableTransaction = errors.New("transactions are immutable")

type Transaction struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Reference    string          `gorm:"size:26;uniqueIndex;not null" json:"reference"`
	UserID       uint            `gorm:"not null;index" json:"user_id"`
	AccountID    uint            `gorm:"not null;index" json:"account_id"`
	PositionID   *uint           `gorm:"index" json:"investment,omitempty"`
	Amount       decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"amount"`
	PricePerUnit decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"price_per_unit"`
	Units        decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"units"`
	Type         TransactionType `gorm:"size:4;not null" json:"transaction_type"`
	CreatedAt    time.Time       `gorm:"index" json:"transaction_date"`
}

func (Transaction) TableName() string {
	return "transactions"
}

func (t *Transaction) BeforeUpdate(tx *gorm.DB) error {
	return ErrImmutableTransaction
}
