package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/datacatalog/internal/insight"
)

var (
	importDryRun bool
	exportOutput string
)

var importInsightsCmd = &cobra.Command{
	Use:   "import-insights FILE",
	Short: "Import insights from a CSV file",
	Long: `Import insights from a positional CSV file, one insert per data line.

The first non-blank line is treated as a header. Rows that fail are listed
in the JSON summary and do not stop the import.

Example:
  datacatalog import-insights insights.csv
  datacatalog import-insights --dry-run insights.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runImportInsights,
}

var exportInsightsCmd = &cobra.Command{
	Use:   "export-insights",
	Short: "Export all insights as CSV",
	Args:  cobra.NoArgs,
	RunE:  runExportInsights,
}

func init() {
	importInsightsCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "parse and validate into memory without touching PostgreSQL")
	exportInsightsCmd.Flags().StringVarP(&exportOutput, "output", "o", insight.ExportFileName, `output file ("-" for stdout)`)
}

func runImportInsights(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, openOptions{memoryInsights: importDryRun})
	if err != nil {
		return err
	}
	defer a.Close()

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open %s: %w", args[0], err)
	}
	defer f.Close()

	result, err := a.service.ImportInsightsFrom(ctx, f, a.cfg.Upload.MaxFileSize)
	if result != nil {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(result); encErr != nil {
			return encErr
		}
	}
	return err
}

func runExportInsights(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, openOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	content, err := a.service.ExportInsights(ctx)
	if err != nil {
		return err
	}
	if exportOutput == "-" {
		_, err = fmt.Fprint(cmd.OutOrStdout(), content)
		return err
	}
	if err := os.WriteFile(exportOutput, []byte(content), 0644); err != nil {
		return fmt.Errorf("write %s: %w", exportOutput, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "exported insights to %s\n", exportOutput)
	return nil
}
