package controllers

import (
	"investmanager.com/dto"
	"investmanager.com/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type TransactionController struct {
	processor *services.TransactionProcessor
	reports   *services.ReportService
	validator *validator.Validate
}

func NewTransactionController(processor *services.TransactionProcessor, reports *services.ReportService) *TransactionController {
	return &TransactionController{processor: processor, reports: reports, validator: validator.New()}
}

// ExecuteTransaction godoc
//
//	@Summary		Buy or sell units of a symbol
//	@Description	Prices the symbol from the market feed, adjusts the account's investment and records an immutable transaction. Send either units or amount.
//	@Tags			Transactions
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			account_id	path		int								true	"Account ID"
//	@Param			body		body		dto.ExecuteTransactionRequest	true	"Transaction"
//	@Success		201			{object}	types.Response{data=dto.TransactionResult}
//	@Failure		400			{object}	types.Response	"Invalid input, unknown price or not enough units"
//	@Failure		403			{object}	types.Response
//	@Failure		404			{object}	types.Response
//	@Router			/accounts/{account_id}/transactions [post]
func (tc *TransactionController) ExecuteTransaction(c *fiber.Ctx) error {
	accountID, err := paramID(c, "account_id")
	if err != nil {
		return fail(c, err)
	}
	var req dto.ExecuteTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := tc.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	result, err := tc.processor.Execute(c.UserContext(), services.ExecuteRequest{
		Actor:     actor(c),
		AccountID: accountID,
		Symbol:    req.Symbol,
		Name:      req.Name,
		Type:      req.TransactionType,
		Units:     string(req.Units),
		Amount:    string(req.Amount),
	})
	if err != nil {
		return fail(c, err)
	}
	return reply(c, fiber.StatusCreated, result)
}

// ListAccountTransactions godoc
//
//	@Summary	Transactions of one account, oldest first
//	@Tags		Transactions
//	@Produce	json
//	@Security	BearerAuth
//	@Param		account_id	path		int		true	"Account ID"
//	@Param		start_date	query		string	false	"YYYY-MM-DD"
//	@Param		end_date	query		string	false	"YYYY-MM-DD"
//	@Success	200			{object}	types.Response{data=[]types.Transaction}
//	@Failure	403			{object}	types.Response
//	@Failure	404			{object}	types.Response
//	@Router		/accounts/{account_id}/transactions [get]
func (tc *TransactionController) ListAccountTransactions(c *fiber.Ctx) error {
	accountID, err := paramID(c, "account_id")
	if err != nil {
		return fail(c, err)
	}
	r, err := services.ParseDateRange(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		return fail(c, err)
	}
	txns, err := tc.reports.TransactionsFor(actor(c), &accountID, r)
	if err != nil {
		return fail(c, err)
	}
	return reply(c, fiber.StatusOK, txns)
}

// ListTransactions godoc
//
//	@Summary	Transactions of every account the caller may read
//	@Tags		Transactions
//	@Produce	json
//	@Security	BearerAuth
//	@Param		start_date	query		string	false	"YYYY-MM-DD"
//	@Param		end_date	query		string	false	"YYYY-MM-DD"
//	@Success	200			{object}	types.Response{data=[]types.Transaction}
//	@Router		/transactions [get]
func (tc *TransactionController) ListTransactions(c *fiber.Ctx) error {
	r, err := services.ParseDateRange(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		return fail(c, err)
	}
	txns, err := tc.reports.TransactionsFor(actor(c), nil, r)
	if err != nil {
		return fail(c, err)
	}
	return reply(c, fiber.StatusOK, txns)
}

// RealizedProfit godoc
//
//	@Summary		Realized profit of an account
//	@Description	Sells are matched against earlier buys of the same investment, first in first out.
//	@Tags			Transactions
//	@Produce		json
//	@Security		BearerAuth
//	@Param			account_id	path		int	true	"Account ID"
//	@Success		200			{object}	types.Response{data=dto.RealizedProfitResponse}
//	@Failure		403			{object}	types.Response
//	@Router			/accounts/{account_id}/profit [get]
func (tc *TransactionController) RealizedProfit(c *fiber.Ctx) error {
	accountID, err := paramID(c, "account_id")
	if err != nil {
		return fail(c, err)
	}
	profit, err := tc.reports.RealizedProfit(actor(c), accountID)
	if err != nil {
		return fail(c, err)
	}
	return reply(c, fiber.StatusOK, profit)
}

func InitTransactionRoutes(app *fiber.App, auth fiber.Handler, processor *services.TransactionProcessor, reports *services.ReportService) {
	transactionController := NewTransactionController(processor, reports)

	app.Get("/transactions", auth, transactionController.ListTransactions)
	app.Get("/accounts/:account_id/transactions", auth, transactionController.ListAccountTransactions)
	app.Post("/accounts/:account_id/transactions", auth, transactionController.ExecuteTransaction)
	app.Post("/accounts/:account_id/investments/simulate", auth, transactionController.ExecuteTransaction)
	app.Get("/accounts/:account_id/profit", auth, transactionController.RealizedProfit)
}
