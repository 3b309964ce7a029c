// Command profilectl inspects and maintains the stored reading profile of a
// wordpace installation.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	outputFormat string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:           "profilectl",
	Short:         "Inspect, migrate, export or reset the stored profile",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "json", "output format: json or yaml")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level")
	rootCmd.AddCommand(showCmd, migrateCmd, exportCmd, resetCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
