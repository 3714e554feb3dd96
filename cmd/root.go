package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var (
	configPath = "./config/swapcore.yaml"
	rootCmd    = &cobra.Command{
		Use:   "swapcore",
		Short: "Token swap CLI",
		Long: `CLI to quote and execute token swaps on EVM networks.

Use "swapcore price" for a non-binding estimate or "swapcore swap" to
execute, either from a plain account or through a smart wallet.
`,
	}
)

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config/swapcore.yaml", "Path to config file")
}
