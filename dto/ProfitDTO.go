package dto

import "github.com/shopspring/decimal"

type InvestmentProfit struct {
	InvestmentID uint            `json:"investment_id"`
	Symbol       string          `json:"symbol"`
	Profit       decimal.Decimal `json:"profit"`
}

type RealizedProfitResponse struct {
	AccountID            uint               `json:"account_id"`
	TotalProfit          decimal.Decimal    `json:"total_profit"`
	TotalProfitConverted decimal.Decimal    `json:"total_profit_converted"`
	PerInvestment        []InvestmentProfit `json:"per_investment"`
}
