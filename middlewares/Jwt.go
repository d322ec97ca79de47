package middlewares

import (
	"errors"

	"investmanager.com/config"
	"investmanager.com/types"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const actorKey = "actor"

// NewJWT validates bearer tokens with the local HS256 key, or against
// JWKS_URL when one is configured outside test mode.
func NewJWT(cfg *config.Config) (fiber.Handler, error) {
	if cfg.JWKSURL != "" && !cfg.JWTTestMode {
		return jwtware.New(jwtware.Config{
			SuccessHandler: jwtSuccessHandler,
			ErrorHandler:   jwtErrorHandler,
			JWKSetURLs:     []string{cfg.JWKSURL},
		}), nil
	}

	key, err := cfg.SigningKey()
	if err != nil {
		return nil, err
	}
	return jwtware.New(jwtware.Config{
		SigningKey:     jwtware.SigningKey{Key: key, JWTAlg: jwtware.HS256},
		SuccessHandler: jwtSuccessHandler,
		ErrorHandler:   jwtErrorHandler,
	}), nil
}

func jwtSuccessHandler(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return jwtErrorHandler(c, errors.New("unexpected claims"))
	}

	actor, err := actorFromClaims(claims)
	if err != nil {
		return jwtErrorHandler(c, err)
	}
	c.Locals("token", token.Raw)
	c.Locals(actorKey, actor)
	return c.Next()
}

func actorFromClaims(claims jwt.MapClaims) (types.Actor, error) {
	if typ, ok := claims["type"]; ok && typ != "access" {
		return types.Actor{}, errors.New("not an access token")
	}
	id, ok := claims["user_id"].(float64)
	if !ok || id <= 0 {
		return types.Actor{}, errors.New("token has no user_id")
	}
	username, _ := claims["username"].(string)
	isAdmin, _ := claims["is_admin"].(bool)
	return types.Actor{UserID: uint(id), Username: username, IsAdmin: isAdmin}, nil
}

func jwtErrorHandler(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnauthorized).JSON(types.Response{
		Success: false,
		Error:   "Unauthorized - " + err.Error(),
	})
}

// ActorFrom returns the caller stored by the JWT middleware.
func ActorFrom(c *fiber.Ctx) (types.Actor, bool) {
	actor, ok := c.Locals(actorKey).(types.Actor)
	return actor, ok
}
