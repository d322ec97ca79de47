package services

import (
	"sort"

	"investmanager.com/dto"
	"investmanager.com/permissions"
	"investmanager.com/portfolio"
	"investmanager.com/types"

	"github.com/shopspring/decimal"
)

type buyLot struct {
	Units decimal.Decimal
	Price decimal.Decimal
}

// RealizedProfit matches sells against earlier buys of the same investment,
// first in first out.
func (s *ReportService) RealizedProfit(actor types.Actor, accountID uint) (*dto.RealizedProfitResponse, error) {
	if err := s.requireAccount(accountID); err != nil {
		return nil, err
	}
	if err := s.registry.Require(nil, actor.UserID, accountID, permissions.Read); err != nil {
		return nil, err
	}

	txns, err := s.ledger.Query(s.db, portfolio.Filter{AccountIDs: []uint{accountID}})
	if err != nil {
		return nil, err
	}
	positions, err := s.positions.ListForAccounts(s.db, []uint{accountID})
	if err != nil {
		return nil, err
	}
	symbols := map[uint]string{}
	for _, p := range positions {
		symbols[p.ID] = p.Symbol
	}

	profit := realizedByPosition(txns)

	resp := &dto.RealizedProfitResponse{AccountID: accountID, TotalProfit: decimal.Zero, PerInvestment: []dto.InvestmentProfit{}}
	for posID, amount := range profit {
		amount = amount.Round(amountPlaces)
		resp.PerInvestment = append(resp.PerInvestment, dto.InvestmentProfit{
			InvestmentID: posID,
			Symbol:       symbols[posID],
			Profit:       amount,
		})
		resp.TotalProfit = resp.TotalProfit.Add(amount)
	}
	sort.Slice(resp.PerInvestment, func(i, j int) bool {
		return resp.PerInvestment[i].Symbol < resp.PerInvestment[j].Symbol
	})
	resp.TotalProfitConverted = s.converter.Convert(resp.TotalProfit)
	return resp, nil
}

// realizedByPosition expects txns oldest first. Sells without matching buys
// contribute nothing.
func realizedByPosition(txns []types.Transaction) map[uint]decimal.Decimal {
	lots := map[uint][]buyLot{}
	profit := map[uint]decimal.Decimal{}

	for _, t := range txns {
		if t.PositionID == nil {
			continue
		}
		id := *t.PositionID

		if t.Type == types.Buy {
			lots[id] = append(lots[id], buyLot{Units: t.Units, Price: t.PricePerUnit})
			continue
		}

		remaining := t.Units
		queue := lots[id]
		for i := 0; i < len(queue) && remaining.IsPositive(); i++ {
			lot := &queue[i]
			matched := decimal.Min(remaining, lot.Units)
			gain := matched.Mul(t.PricePerUnit.Sub(lot.Price))
			profit[id] = profit[id].Add(gain)
			lot.Units = lot.Units.Sub(matched)
			remaining = remaining.Sub(matched)
		}

		open := queue[:0]
		for _, lot := range queue {
			if lot.Units.IsPositive() {
				open = append(open, lot)
			}
		}
		lots[id] = open
		if _, ok := profit[id]; !ok {
			profit[id] = decimal.Zero
		}
	}
	return profit
}
