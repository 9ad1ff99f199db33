// Package main provides the datacatalog server and its maintenance commands.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/datacatalog/internal/core"
	"github.com/JonMunkholm/datacatalog/internal/insight"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// reportError prints err and, when it matches a known pattern, the
// user-facing message with its support code.
func reportError(w io.Writer, err error) {
	fmt.Fprintln(w, "Error:", err)
	if core.IsUserFacing(err) {
		fmt.Fprintln(w, core.FormatUserError(err))
	}
}

// envFile is set by the --env-file flag.
var envFile string

var rootCmd = &cobra.Command{
	Use:   "datacatalog",
	Short: "Data catalog and insight manager",
	Long: `datacatalog serves the table catalog (SQLite) and the insight manager
(PostgreSQL) over HTTP, and provides commands to import and export insights
and back up the catalog without starting the server.`,
	Version: fmt.Sprintf("import schema v%d, export header v%d",
		insight.ImportSchemaVersion, insight.ExportHeaderVersion),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Overload so .env wins over the inherited environment.
		if err := godotenv.Overload(envFile); err != nil {
			if cmd.Flags().Changed("env-file") {
				return fmt.Errorf("load %s: %w", envFile, err)
			}
			slog.Debug("no .env file found, using environment variables")
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "environment file loaded before configuration")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importInsightsCmd)
	rootCmd.AddCommand(exportInsightsCmd)
	rootCmd.AddCommand(backupCmd)
}
