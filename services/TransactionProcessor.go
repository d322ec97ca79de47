package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"investmanager.com/dto"
	"investmanager.com/market"
	"investmanager.com/permissions"
	"investmanager.com/portfolio"
	"investmanager.com/types"

	"github.com/gofiber/fiber/v2/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	msgInvalidType     = "invalid transaction type"
	msgInvalidQuantity = "invalid amount/units"
	msgNotEnoughUnits  = "Not enough units to sell."

	unitsPlaces  = 8
	amountPlaces = 2
)

// PriceSource is satisfied by *market.Gateway.
type PriceSource interface {
	FetchPrice(ctx context.Context, symbol string) market.Result
}

// Notifier receives committed transactions. Failures are logged, never
// returned to the caller.
type Notifier interface {
	PublishTransactionExecuted(event dto.TransactionExecutedEvent) error
}

// ExecuteRequest carries exactly one of Units or Amount, as sent by the
// client.
type ExecuteRequest struct {
	Actor     types.Actor
	AccountID uint
	Symbol    string
	Name      string
	Type      string
	Units     string
	Amount    string
}

type TransactionProcessor struct {
	db        *gorm.DB
	registry  *permissions.Registry
	prices    PriceSource
	positions *portfolio.PositionStore
	ledger    *portfolio.Ledger
	locks     *portfolio.LockTable
	converter *Converter
	notifier  Notifier
}

func NewTransactionProcessor(conn *gorm.DB, registry *permissions.Registry, prices PriceSource, converter *Converter, notifier Notifier) *TransactionProcessor {
	return &TransactionProcessor{
		db:        conn,
		registry:  registry,
		prices:    prices,
		positions: portfolio.NewPositionStore(),
		ledger:    portfolio.NewLedger(),
		locks:     portfolio.Locks,
		converter: converter,
		notifier:  notifier,
	}
}

// Execute records a buy or sell. The position update and the ledger append
// commit together or not at all.
func (p *TransactionProcessor) Execute(ctx context.Context, req ExecuteRequest) (*dto.TransactionResult, error) {
	var account types.Account
	if err := p.db.WithContext(ctx).First(&account, req.AccountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("account %d not found", req.AccountID)
		}
		return nil, fmt.Errorf("load account %d: %w", req.AccountID, err)
	}

	if err := p.registry.Require(p.db.WithContext(ctx), req.Actor.UserID, account.ID, permissions.Write); err != nil {
		return nil, err
	}

	txType := types.TransactionType(strings.ToLower(strings.TrimSpace(req.Type)))
	if !txType.Valid() {
		return nil, types.InvalidInput(msgInvalidType)
	}

	units, amount, err := parseQuantity(req.Units, req.Amount)
	if err != nil {
		return nil, err
	}

	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		return nil, types.InvalidInput("symbol is required")
	}

	quote := p.prices.FetchPrice(ctx, symbol)
	if quote.Err != nil {
		return nil, quote.Err
	}
	price := quote.Price

	if units == nil {
		if price.IsZero() {
			return nil, types.InvalidInput(msgInvalidQuantity)
		}
		u := amount.DivRound(price, unitsPlaces)
		units = &u
	} else {
		a := units.Mul(price).Round(unitsPlaces)
		amount = &a
	}

	lock := p.locks.For(account.ID, symbol)
	lock.Lock()
	defer lock.Unlock()

	var (
		pos *types.Position
		txn types.Transaction
	)
	err = p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var (
			created bool
			err     error
		)
		pos, created, err = p.positions.GetOrCreate(tx, account.ID, symbol, req.Name, price)
		if err != nil {
			return err
		}
		if created && txType == types.Sell {
			return types.InsufficientUnits(msgNotEnoughUnits)
		}

		delta := *units
		if txType == types.Sell {
			delta = delta.Neg()
		}
		if err := p.positions.Adjust(pos, delta); err != nil {
			return err
		}
		p.positions.RefreshPrice(pos, price)
		pos.TransactionType = txType
		if err := p.positions.Save(tx, pos); err != nil {
			return err
		}

		txn = types.Transaction{
			UserID:       req.Actor.UserID,
			AccountID:    account.ID,
			PositionID:   &pos.ID,
			Amount:       *amount,
			PricePerUnit: price,
			Units:        *units,
			Type:         txType,
		}
		return p.ledger.Append(tx, &txn)
	})
	if err != nil {
		return nil, err
	}

	log.Infof("Executed %s of %s %s in account %d by user %d (ref %s)",
		txType, units.String(), symbol, account.ID, req.Actor.UserID, txn.Reference)
	p.publish(txn, symbol)

	converted := p.converter.Convert(txn.Amount)
	return &dto.TransactionResult{
		Transaction:     txn,
		Investment:      *pos,
		PriceSource:     quote.Source,
		Value:           txn.Amount,
		ValueConverted:  converted,
		Currency:        p.converter.From,
		ConvertedTo:     p.converter.To,
		ConvertedString: Display(converted, p.converter.To),
	}, nil
}

func (p *TransactionProcessor) publish(txn types.Transaction, symbol string) {
	if p.notifier == nil {
		return
	}
	event := dto.TransactionExecutedEvent{
		Reference:    txn.Reference,
		AccountID:    txn.AccountID,
		UserID:       txn.UserID,
		Symbol:       symbol,
		Type:         string(txn.Type),
		Units:        txn.Units,
		PricePerUnit: txn.PricePerUnit,
		Amount:       txn.Amount,
		ExecutedAt:   txn.CreatedAt,
	}
	if err := p.notifier.PublishTransactionExecuted(event); err != nil {
		log.Warnf("Failed to publish transaction %s: %v", txn.Reference, err)
	}
}

// parseQuantity returns exactly one non-nil value.
func parseQuantity(rawUnits, rawAmount string) (units, amount *decimal.Decimal, err error) {
	rawUnits = strings.TrimSpace(rawUnits)
	rawAmount = strings.TrimSpace(rawAmount)
	if (rawUnits == "") == (rawAmount == "") {
		return nil, nil, types.InvalidInput(msgInvalidQuantity)
	}

	raw := rawUnits
	if raw == "" {
		raw = rawAmount
	}
	d, perr := decimal.NewFromString(raw)
	if perr != nil || d.IsNegative() {
		return nil, nil, types.InvalidInput(msgInvalidQuantity)
	}
	if rawUnits != "" {
		return &d, nil, nil
	}
	return nil, &d, nil
}
