package controllers

import (
	"strconv"

	"investmanager.com/middlewares"
	"investmanager.com/types"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// statusFor maps ledger error kinds to HTTP status codes.
func statusFor(err error) int {
	switch types.KindOf(err) {
	case types.KindAccessDenied:
		return fiber.StatusForbidden
	case types.KindNotFound:
		return fiber.StatusNotFound
	case types.KindInvalidInput, types.KindGateway, types.KindInsufficientUnits:
		return fiber.StatusBadRequest
	case types.KindUnauthenticated:
		return fiber.StatusUnauthorized
	}
	return fiber.StatusInternalServerError
}

func fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	msg := types.MessageOf(err)
	if status == fiber.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
		msg = "internal server error"
	}
	return c.Status(status).JSON(types.Response{
		Success: false,
		Error:   msg,
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(types.Response{
		Success: false,
		Error:   msg,
	})
}

func reply(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(types.Response{
		Success: true,
		Data:    data,
	})
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, types.InvalidInput("invalid " + name)
	}
	return uint(id), nil
}

// actor is only called on routes behind the JWT middleware.
func actor(c *fiber.Ctx) types.Actor {
	a, _ := middlewares.ActorFrom(c)
	return a
}
