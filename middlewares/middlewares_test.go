package middlewares

import (
	"encoding/base64"
	"net/http/httptest"
	"testing"
	"time"

	"investmanager.com/config"
	"investmanager.com/permissions"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("middleware-test-key")

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testKey)
	require.NoError(t, err)
	return s
}

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	auth, err := NewJWT(&config.Config{JWTSecret: base64.StdEncoding.EncodeToString(testKey), JWTTestMode: true})
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/me", auth, func(c *fiber.Ctx) error {
		actor, ok := ActorFrom(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(actor)
	})
	app.Get("/admin", auth, RequireCapability(permissions.UserReports), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func request(t *testing.T, app *fiber.App, path, token string) int {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func claims(typ string, admin bool) jwt.MapClaims {
	return jwt.MapClaims{
		"user_id":  7,
		"username": "alice",
		"is_admin": admin,
		"type":     typ,
		"exp":      time.Now().Add(time.Minute).Unix(),
	}
}

func TestJWTMiddleware(t *testing.T) {
	app := newApp(t)

	assert.Equal(t, fiber.StatusUnauthorized, request(t, app, "/me", ""))
	assert.Equal(t, fiber.StatusUnauthorized, request(t, app, "/me", "garbage"))
	assert.Equal(t, fiber.StatusUnauthorized, request(t, app, "/me", sign(t, claims("refresh", false))))
	assert.Equal(t, fiber.StatusOK, request(t, app, "/me", sign(t, claims("access", false))))

	expired := claims("access", false)
	expired["exp"] = time.Now().Add(-time.Minute).Unix()
	assert.Equal(t, fiber.StatusUnauthorized, request(t, app, "/me", sign(t, expired)))
}

func TestRequireCapability(t *testing.T) {
	app := newApp(t)

	assert.Equal(t, fiber.StatusForbidden, request(t, app, "/admin", sign(t, claims("access", false))))
	assert.Equal(t, fiber.StatusOK, request(t, app, "/admin", sign(t, claims("access", true))))
}

func TestNewJWTRequiresSecret(t *testing.T) {
	_, err := NewJWT(&config.Config{JWTTestMode: true})
	assert.Error(t, err)
}
