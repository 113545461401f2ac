package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/akylbek/payment-system/checkout-payments/internal/models"
	"github.com/akylbek/payment-system/checkout-payments/internal/poller"
)

func pollCmd() *cobra.Command {
	var (
		server    string
		interval  time.Duration
		maxErrors int
	)

	cmd := &cobra.Command{
		Use:   "poll [paymentId]",
		Short: "Wait for an out-of-band payment to reach a final status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			client := poller.NewHTTPStatusClient(server, &http.Client{Timeout: 10 * time.Second})
			p := poller.New(client,
				poller.WithInterval(interval),
				poller.WithMaxErrors(maxErrors),
				poller.WithStatusHook(func(s models.PaymentStatus) {
					fmt.Fprintf(cmd.OutOrStdout(), "status: %s\n", s)
				}),
			)

			status, err := p.Poll(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "payment %s %s\n", args[0], status)
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "http://localhost:8082", "payments API base URL")
	cmd.Flags().DurationVar(&interval, "interval", poller.DefaultInterval, "delay between status queries")
	cmd.Flags().IntVar(&maxErrors, "max-errors", poller.DefaultMaxErrors, "consecutive query failures before giving up")

	return cmd
}
