package routes

import (
	"investmanager.com/config"
	"investmanager.com/controllers"
	"investmanager.com/market"
	"investmanager.com/middlewares"
	"investmanager.com/permissions"
	"investmanager.com/services"
	"investmanager.com/types"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"gorm.io/gorm"
)

// Services is everything the HTTP layer calls into.
type Services struct {
	Auth      *services.AuthService
	Accounts  *services.AccountService
	Registry  *permissions.Registry
	Processor *services.TransactionProcessor
	Reports   *services.ReportService
	Prices    *market.Gateway
}

// NewServices wires the ledger core onto conn.
func NewServices(cfg *config.Config, conn *gorm.DB, prices *market.Gateway, notifier services.Notifier) (*Services, error) {
	key, err := cfg.SigningKey()
	if err != nil {
		return nil, err
	}
	registry := permissions.NewRegistry(conn)
	converter := services.NewConverter(cfg.ConversionRate, cfg.SourceCurrency, cfg.TargetCurrency)

	return &Services{
		Auth:      services.NewAuthService(conn, key, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		Accounts:  services.NewAccountService(conn, registry),
		Registry:  registry,
		Processor: services.NewTransactionProcessor(conn, registry, prices, converter, notifier),
		Reports:   services.NewReportService(conn, registry, converter),
		Prices:    prices,
	}, nil
}

func NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(types.Response{Success: false, Error: err.Error()})
		},
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(func(c *fiber.Ctx) error {
		c.Set("Access-Control-Allow-Origin", "*")
		c.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE")
		return c.Next()
	})
	return app
}

func Setup(app *fiber.App, auth fiber.Handler, s *Services) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/swagger/*", fiberSwagger.WrapHandler)

	controllers.InitAuthRoutes(app, s.Auth)
	controllers.InitAccountRoutes(app, auth, s.Accounts)
	controllers.InitPermissionRoutes(app, auth, s.Registry)
	controllers.InitTransactionRoutes(app, auth, s.Processor, s.Reports)
	controllers.InitReportRoutes(app, auth, s.Reports, s.Prices)
}

// Build returns a ready app for cfg.
func Build(cfg *config.Config, conn *gorm.DB, prices *market.Gateway, notifier services.Notifier) (*fiber.App, error) {
	s, err := NewServices(cfg, conn, prices, notifier)
	if err != nil {
		return nil, err
	}
	auth, err := middlewares.NewJWT(cfg)
	if err != nil {
		return nil, err
	}
	app := NewApp()
	Setup(app, auth, s)
	return app, nil
}
