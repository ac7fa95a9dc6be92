// Package main provides the storefront binary entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storefront",
		Short: "Abella Stitches storefront API server",
		Long: `Storefront serves the Abella Stitches e-commerce API: product
catalog, Paystack checkout and webhooks, order management, admin console
authentication and the newsletter.

Configuration is read from environment variables. PAYSTACK_SECRET_KEY
and JWT_SECRET are required; everything else has development defaults.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(serveCmd(), seedCmd())

	return cmd
}
