package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"investmanager.com/broker"
	"investmanager.com/cron"
	"investmanager.com/db"
	"investmanager.com/market"
	"investmanager.com/routes"

	_ "investmanager.com/docs"

	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API with the price refresh jobs",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := bootstrap()
	if err != nil {
		return err
	}

	gw, err := market.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("market gateway: %w", err)
	}

	if cfg.BrokerHost != "" {
		network := cfg.BrokerNetwork
		if network == "" {
			network = "tcp"
		}
		if err := broker.Connect(network, cfg.BrokerHost); err != nil {
			log.Warnf("Transaction events disabled: %v", err)
		} else {
			defer broker.Disconnect()
		}
	}

	scheduler, err := cron.StartScheduler(cfg, db.DB, gw)
	if err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer scheduler.Stop()

	app, err := routes.Build(cfg, db.DB, gw, broker.Publisher{})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Swagger UI available at http://localhost%s/swagger/index.html", cfg.ListenPath)
		errCh <- app.Listen(cfg.ListenPath)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Infof("Received %s, shutting down", sig)
		return app.ShutdownWithTimeout(10 * time.Second)
	}
}
