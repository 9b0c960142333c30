package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/bandprep/internal/config"
	"github.com/abhisek/bandprep/internal/identity"
)

var tokenCmd = &cobra.Command{
	Use:   "token <user-id>",
	Short: "Mint a development auth token for the results endpoint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		token, err := identity.NewIssuer(cfg.JWTSecret, cfg.TokenTTL).Mint(args[0])
		if err != nil {
			return fmt.Errorf("mint token: %w", err)
		}
		fmt.Println(token)
		return nil
	},
}
