// Package portfolio stores positions and the append-only transaction ledger.
// Every method takes the gorm handle to run on so callers can compose them
// inside one DB transaction.
package portfolio

import (
	"fmt"
	"strings"
	"time"

	"investmanager.com/db"
	"investmanager.com/types"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const msgNotEnoughUnits = "Not enough units to sell."

type PositionStore struct{}

func NewPositionStore() *PositionStore {
	return &PositionStore{}
}

// GetOrCreate inserts an empty position for (account, symbol) unless one
// exists, then reads it back. On Postgres the read holds a row lock until tx
// ends.
func (s *PositionStore) GetOrCreate(tx *gorm.DB, accountID uint, symbol, name string, price decimal.Decimal) (*types.Position, bool, error) {
	symbol = strings.ToUpper(symbol)
	if name == "" {
		name = symbol
	}

	candidate := types.Position{
		AccountID:    accountID,
		Symbol:       symbol,
		Name:         name,
		PricePerUnit: price,
		Units:        decimal.Zero,
	}
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_id"}, {Name: "symbol"}},
		DoNothing: true,
	}).Create(&candidate)
	if res.Error != nil {
		return nil, false, fmt.Errorf("insert position %d/%s: %w", accountID, symbol, res.Error)
	}
	created := res.RowsAffected == 1

	q := tx
	if db.IsPostgres(tx) {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var pos types.Position
	if err := q.Where("account_id = ? AND symbol = ?", accountID, symbol).First(&pos).Error; err != nil {
		return nil, false, fmt.Errorf("load position %d/%s: %w", accountID, symbol, err)
	}
	return &pos, created, nil
}

// Adjust applies a signed unit delta in memory.
func (s *PositionStore) Adjust(pos *types.Position, delta decimal.Decimal) error {
	next := pos.Units.Add(delta)
	if next.IsNegative() {
		return types.InsufficientUnits(msgNotEnoughUnits)
	}
	pos.Units = next
	return nil
}

func (s *PositionStore) RefreshPrice(pos *types.Position, price decimal.Decimal) {
	pos.PricePerUnit = price
}

func (s *PositionStore) Save(tx *gorm.DB, pos *types.Position) error {
	if err := tx.Save(pos).Error; err != nil {
		return fmt.Errorf("save position %d: %w", pos.ID, err)
	}
	return nil
}

func (s *PositionStore) ListForAccounts(tx *gorm.DB, accountIDs []uint) ([]types.Position, error) {
	out := []types.Position{}
	if len(accountIDs) == 0 {
		return out, nil
	}
	err := tx.Where("account_id IN ?", accountIDs).Order("account_id, symbol").Find(&out).Error
	return out, err
}

// ListCreatedBetween filters on creation time, inclusive at both ends.
func (s *PositionStore) ListCreatedBetween(tx *gorm.DB, accountIDs []uint, from, to time.Time) ([]types.Position, error) {
	out := []types.Position{}
	if len(accountIDs) == 0 {
		return out, nil
	}
	err := tx.Where("account_id IN ? AND created_at >= ? AND created_at <= ?", accountIDs, from.UTC(), to.UTC()).
		Order("created_at").
		Find(&out).Error
	return out, err
}

// Symbols returns every distinct symbol currently held.
func (s *PositionStore) Symbols(tx *gorm.DB) ([]string, error) {
	var out []string
	err := tx.Model(&types.Position{}).Distinct("symbol").Order("symbol").Pluck("symbol", &out).Error
	return out, err
}

// ListBySymbol returns the positions holding symbol across all accounts.
func (s *PositionStore) ListBySymbol(tx *gorm.DB, symbol string) ([]types.Position, error) {
	out := []types.Position{}
	err := tx.Where("symbol = ?", symbol).Order("account_id").Find(&out).Error
	return out, err
}

func (s *PositionStore) DeleteForAccount(tx *gorm.DB, accountID uint) error {
	return tx.Where("account_id = ?", accountID).Delete(&types.Position{}).Error
}
