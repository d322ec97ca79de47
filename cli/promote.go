package cli

import (
	"investmanager.com/db"
	"investmanager.com/services"
	"investmanager.com/types"

	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/cobra"
)

var promoteCmd = &cobra.Command{
	Use:   "promote <username>",
	Short: "Make a user a platform administrator",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := bootstrap()
		if err != nil {
			return err
		}
		auth := services.NewAuthService(db.DB, nil, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
		user, err := auth.Promote(types.Actor{IsAdmin: true}, args[0])
		if err != nil {
			return err
		}
		log.Infof("User %s (%d) is now an administrator", user.Username, user.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(promoteCmd)
}
