package controllers

import (
	"investmanager.com/dto"
	"investmanager.com/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	auth      *services.AuthService
	validator *validator.Validate
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth, validator: validator.New()}
}

// Register godoc
//
//	@Summary		Register a user
//	@Description	Creates a user and returns an access/refresh token pair.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		dto.RegisterRequest					true	"New user"
//	@Success		201		{object}	types.Response{data=dto.TokenPair}
//	@Failure		400		{object}	types.Response
//	@Router			/register [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := ac.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}
	pair, err := ac.auth.Register(req)
	if err != nil {
		return fail(c, err)
	}
	return reply(c, fiber.StatusCreated, pair)
}

// Login godoc
//
//	@Summary	Obtain a token pair
//	@Tags		Auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		dto.LoginRequest	true	"Credentials"
//	@Success	200		{object}	types.Response{data=dto.TokenPair}
//	@Failure	401		{object}	types.Response
//	@Router		/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := ac.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}
	pair, err := ac.auth.Login(req)
	if err != nil {
		return fail(c, err)
	}
	return reply(c, fiber.StatusOK, pair)
}

// Refresh godoc
//
//	@Summary	Exchange a refresh token for a new access token
//	@Tags		Auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		dto.RefreshRequest	true	"Refresh token"
//	@Success	200		{object}	types.Response{data=dto.TokenPair}
//	@Failure	401		{object}	types.Response
//	@Router		/token/refresh [post]
func (ac *AuthController) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := ac.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}
	pair, err := ac.auth.Refresh(req)
	if err != nil {
		return fail(c, err)
	}
	return reply(c, fiber.StatusOK, pair)
}

func InitAuthRoutes(app *fiber.App, auth *services.AuthService) {
	authController := NewAuthController(auth)

	app.Post("/register", authController.Register)
	app.Post("/login", authController.Login)
	app.Post("/token/refresh", authController.Refresh)
}
