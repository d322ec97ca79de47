package controllers

import (
	"investmanager.com/dto"
	"investmanager.com/permissions"
	"investmanager.com/types"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type PermissionController struct {
	registry  *permissions.Registry
	validator *validator.Validate
}

func NewPermissionController(registry *permissions.Registry) *PermissionController {
	return &PermissionController{registry: registry, validator: validator.New()}
}

// ListPermissions godoc
//
//	@Summary	List the caller's own permission records
//	@Tags		Permissions
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	types.Response{data=[]types.Permission}
//	@Router		/account-permissions [get]
func (pc *PermissionController) ListPermissions(c *fiber.Ctx) error {
	perms, err := pc.registry.ListForUser(actor(c).UserID)
	if err != nil {
		return fail(c, err)
	}
	return reply(c, fiber.StatusOK, perms)
}

// GrantPermission godoc
//
//	@Summary		Grant a user access to an account
//	@Description	Platform administrators only. Also adds the user as an account member.
//	@Tags			Permissions
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body		dto.GrantPermissionRequest	true	"Grant"
//	@Success		201		{object}	types.Response{data=types.Permission}
//	@Failure		403		{object}	types.Response
//	@Router			/account-permissions [post]
func (pc *PermissionController) GrantPermission(c *fiber.Ctx) error {
	var req dto.GrantPermissionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := pc.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}
	p, err := pc.registry.Grant(actor(c), req.User, req.Account, types.AccessLevel(req.Permission))
	if err != nil {
		return fail(c, err)
	}
	return reply(c, fiber.StatusCreated, p)
}

// UpdatePermission godoc
//
//	@Summary	Change a permission level
//	@Tags		Permissions
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int							true	"Permission ID"
//	@Param		body	body		dto.UpdatePermissionRequest	true	"Level"
//	@Success	200		{object}	types.Response{data=types.Permission}
//	@Failure	403		{object}	types.Response
//	@Failure	404		{object}	types.Response
//	@Router		/account-permissions/{id} [put]
func (pc *PermissionController) UpdatePermission(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req dto.UpdatePermissionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := pc.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}
	p, err := pc.registry.Update(actor(c), id, types.AccessLevel(req.Permission))
	if err != nil {
		return fail(c, err)
	}
	return reply(c, fiber.StatusOK, p)
}

// RevokePermission godoc
//
//	@Summary	Revoke a permission record
//	@Tags		Permissions
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"Permission ID"
//	@Success	200	{object}	types.Response{data=string}
//	@Failure	403	{object}	types.Response
//	@Failure	404	{object}	types.Response
//	@Router		/account-permissions/{id} [delete]
func (pc *PermissionController) RevokePermission(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	if err := pc.registry.Revoke(actor(c), id); err != nil {
		return fail(c, err)
	}
	return reply(c, fiber.StatusOK, "Permission revoked")
}

func InitPermissionRoutes(app *fiber.App, auth fiber.Handler, registry *permissions.Registry) {
	permissionController := NewPermissionController(registry)

	app.Get("/account-permissions", auth, permissionController.ListPermissions)
	app.Post("/account-permissions", auth, permissionController.GrantPermission)
	app.Put("/account-permissions/:id", auth, permissionController.UpdatePermission)
	app.Delete("/account-permissions/:id", auth, permissionController.RevokePermission)
}
