package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akylbek/payment-system/checkout-payments/internal/config"
	"github.com/akylbek/payment-system/checkout-payments/internal/middleware"
)

func tokenCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "token [userId]",
		Short: "Mint a bearer token for local testing of the user-scoped routes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			token, err := middleware.NewJWTAuth(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL).GenerateToken(args[0], email)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email claim")
	return cmd
}
