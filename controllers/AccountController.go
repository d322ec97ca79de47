package controllers

import (
	"investmanager.com/dto"
	"investmanager.com/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type AccountController struct {
	accounts  *services.AccountService
	validator *validator.Validate
}

func NewAccountController(accounts *services.AccountService) *AccountController {
	return &AccountController{accounts: accounts, validator: validator.New()}
}

// ListAccounts godoc
//
//	@Summary		List accounts
//	@Description	Accounts the caller is a member of; administrators see every account.
//	@Tags			Accounts
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	types.Response{data=[]types.Account}
//	@Router			/accounts [get]
func (ac *AccountController) ListAccounts(c *fiber.Ctx) error {
	accounts, err := ac.accounts.List(actor(c))
	if err != nil {
		return fail(c, err)
	}
	return reply(c, fiber.StatusOK, accounts)
}

// CreateAccount godoc
//
//	@Summary		Create an account
//	@Description	The caller becomes a member with the requested permission (default view).
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body		dto.CreateAccountRequest	true	"Account"
//	@Success		201		{object}	types.Response{data=types.Account}
//	@Failure		400		{object}	types.Response
//	@Router			/accounts [post]
func (ac *AccountController) CreateAccount(c *fiber.Ctx) error {
	var req dto.CreateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := ac.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}
	account, err := ac.accounts.Create(actor(c), req)
	if err != nil {
		return fail(c, err)
	}
	return reply(c, fiber.StatusCreated, account)
}

// GetAccount godoc
//
//	@Summary	Get an account with its members
//	@Tags		Accounts
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"Account ID"
//	@Success	200	{object}	types.Response{data=types.Account}
//	@Failure	403	{object}	types.Response
//	@Failure	404	{object}	types.Response
//	@Router		/accounts/{id} [get]
func (ac *AccountController) GetAccount(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	account, err := ac.accounts.Get(actor(c), id)
	if err != nil {
		return fail(c, err)
	}
	return reply(c, fiber.StatusOK, account)
}

// UpdateAccount godoc
//
//	@Summary	Rename or describe an account
//	@Tags		Accounts
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int							true	"Account ID"
//	@Param		body	body		dto.UpdateAccountRequest	true	"Changes"
//	@Success	200		{object}	types.Response{data=types.Account}
//	@Failure	403		{object}	types.Response
//	@Router		/accounts/{id} [put]
func (ac *AccountController) UpdateAccount(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req dto.UpdateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := ac.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}
	account, err := ac.accounts.Update(actor(c), id, req)
	if err != nil {
		return fail(c, err)
	}
	return reply(c, fiber.StatusOK, account)
}

// DeleteAccount godoc
//
//	@Summary		Delete an account
//	@Description	Removes the account with its investments, transactions, permissions and memberships.
//	@Tags			Accounts
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		int	true	"Account ID"
//	@Success		200	{object}	types.Response{data=string}
//	@Failure		403	{object}	types.Response
//	@Failure		404	{object}	types.Response
//	@Router			/accounts/{id} [delete]
func (ac *AccountController) DeleteAccount(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	if err := ac.accounts.Delete(actor(c), id); err != nil {
		return fail(c, err)
	}
	return reply(c, fiber.StatusOK, "Account deleted")
}

// SelectAccount godoc
//
//	@Summary	Set the caller's current account
//	@Tags		Accounts
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"Account ID"
//	@Success	200	{object}	types.Response{data=types.Account}
//	@Failure	404	{object}	types.Response
//	@Router		/select-account/{id} [put]
func (ac *AccountController) SelectAccount(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	account, err := ac.accounts.Select(actor(c), id)
	if err != nil {
		return fail(c, err)
	}
	return reply(c, fiber.StatusOK, account)
}

func InitAccountRoutes(app *fiber.App, auth fiber.Handler, accounts *services.AccountService) {
	accountController := NewAccountController(accounts)

	app.Get("/accounts", auth, accountController.ListAccounts)
	app.Post("/accounts", auth, accountController.CreateAccount)
	app.Get("/accounts/:id", auth, accountController.GetAccount)
	app.Put("/accounts/:id", auth, accountController.UpdateAccount)
	app.Delete("/accounts/:id", auth, accountController.DeleteAccount)
	app.Put("/select-account/:id", auth, accountController.SelectAccount)
}
