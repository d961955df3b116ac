package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X .../commands.version=...".
var (
	version = "dev"
	commit  = "none"
)

var envFile string

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Storefront back end",
	Long: `Storefront serves the catalog, order placement, customer administration
and branding API. Stock is reserved atomically when an order is placed and
restored when the order shrinks or is removed.

Configuration is read from the environment, optionally seeded from a .env file.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional dotenv file loaded before the environment")
	rootCmd.AddCommand(serveCmd, seedAdminCmd, versionCmd)
}
