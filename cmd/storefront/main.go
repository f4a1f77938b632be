package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "storefront",
		Short: "Session-aware console for the digital goods storefront API",
		Long: `storefront serves the customer and back-office console in front of
the storefront REST API. It restores both identities at startup, guards the
admin pages, and keeps the cart badge in step with every cart mutation.

Configuration is read from the environment (API_BASE_URL, PORT, REDIS_ADDR, ...).`,
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		checkCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
