package controllers

import (
	"investmanager.com/dto"
	"investmanager.com/market"
	"investmanager.com/middlewares"
	"investmanager.com/permissions"
	"investmanager.com/services"

	"github.com/gofiber/fiber/v2"
)

type ReportController struct {
	reports *services.ReportService
	prices  *market.Gateway
}

func NewReportController(reports *services.ReportService, prices *market.Gateway) *ReportController {
	return &ReportController{reports: reports, prices: prices}
}

// ListInvestments godoc
//
//	@Summary	Investments in the caller's accounts
//	@Tags		Investments
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	types.Response{data=[]types.Position}
//	@Router		/investments [get]
func (rc *ReportController) ListInvestments(c *fiber.Ctx) error {
	positions, err := rc.reports.Investments(actor(c))
	if err != nil {
		return fail(c, err)
	}
	return reply(c, fiber.StatusOK, positions)
}

// FilterInvestmentsByDate godoc
//
//	@Summary	Investments first opened within a date range
//	@Tags		Investments
//	@Produce	json
//	@Security	BearerAuth
//	@Param		start_date	query		string	true	"YYYY-MM-DD"
//	@Param		end_date	query		string	true	"YYYY-MM-DD"
//	@Success	200			{object}	types.Response{data=[]types.Position}
//	@Failure	400			{object}	types.Response
//	@Router		/investments/date-filter [get]
func (rc *ReportController) FilterInvestmentsByDate(c *fiber.Ctx) error {
	r, err := services.ParseDateRange(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		return fail(c, err)
	}
	positions, err := rc.reports.InvestmentsBetween(actor(c), r)
	if err != nil {
		return fail(c, err)
	}
	return reply(c, fiber.StatusOK, positions)
}

// PortfolioSummary godoc
//
//	@Summary		Total value of the caller's investments
//	@Description	Sums units times price over every account the caller is a member of, with the converted total.
//	@Tags			Reports
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	types.Response{data=dto.PortfolioSummary}
//	@Router			/portfolio/summary [get]
func (rc *ReportController) PortfolioSummary(c *fiber.Ctx) error {
	summary, err := rc.reports.PortfolioSummary(actor(c))
	if err != nil {
		return fail(c, err)
	}
	return reply(c, fiber.StatusOK, summary)
}

// UserTransactions godoc
//
//	@Summary	A user's transactions with totals
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		username	path		string	true	"Username"
//	@Param		start_date	query		string	false	"YYYY-MM-DD"
//	@Param		end_date	query		string	false	"YYYY-MM-DD"
//	@Success	200			{object}	types.Response{data=dto.UserReport}
//	@Failure	403			{object}	types.Response
//	@Failure	404			{object}	types.Response
//	@Router		/admin/transactions/{username} [get]
func (rc *ReportController) UserTransactions(c *fiber.Ctx) error {
	r, err := services.ParseDateRange(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		return fail(c, err)
	}
	report, err := rc.reports.UserReport(actor(c), c.Params("username"), r)
	if err != nil {
		return fail(c, err)
	}
	return reply(c, fiber.StatusOK, report)
}

// MarketData godoc
//
//	@Summary		Current unit price of a symbol
//	@Description	Live feed first, then the snapshot file.
//	@Tags			Market
//	@Produce		json
//	@Security		BearerAuth
//	@Param			symbol	path		string	true	"Ticker symbol"
//	@Success		200		{object}	types.Response{data=dto.PriceResponse}
//	@Failure		400		{object}	types.Response	"Price data not found"
//	@Router			/market-data/{symbol} [get]
func (rc *ReportController) MarketData(c *fiber.Ctx) error {
	res := rc.prices.FetchPrice(c.UserContext(), c.Params("symbol"))
	if res.Err != nil {
		return fail(c, res.Err)
	}
	return reply(c, fiber.StatusOK, dto.PriceResponse{
		Symbol: res.Symbol,
		Price:  res.Price,
		Source: res.Source,
		AsOf:   res.AsOf,
	})
}

func InitReportRoutes(app *fiber.App, auth fiber.Handler, reports *services.ReportService, prices *market.Gateway) {
	reportController := NewReportController(reports, prices)

	app.Get("/investments", auth, reportController.ListInvestments)
	app.Get("/investments/date-filter", auth, reportController.FilterInvestmentsByDate)
	app.Get("/portfolio/summary", auth, reportController.PortfolioSummary)
	app.Get("/admin/transactions/:username", auth, middlewares.RequireCapability(permissions.UserReports), reportController.UserTransactions)
	app.Get("/market-data/:symbol", auth, reportController.MarketData)
}
