// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/seqqc/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report [input-json]",
	Short: "Render a parsed, analysis, or fixes document as a report",
	Long: `Report renders any stage output (parsed report, analysis, or fixes)
as JSON with generation metadata, as CSV, or as a plain-text summary.
The payload type is detected automatically.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().String("output", "report.json", "output file")
	reportCmd.Flags().String("format", "", "output format: json, csv, or summary (default json)")
	reportCmd.Flags().Bool("verbose", false, "verbose logging")

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	format, _ := cmd.Flags().GetString("format")
	verbose, _ := cmd.Flags().GetBool("verbose")

	if format == "" {
		format = cfg.Report.Format
	}
	if format == "" {
		format = report.FormatJSON
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "[INFO] Generating report from: %s\n", args[0])
	}

	r, err := report.Load(args[0])
	if err != nil {
		return err
	}
	r.Version = version

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating %s: %w", output, err)
	}
	defer f.Close()

	if err := r.Write(f, format); err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "[INFO] Report generated: %s\n", output)
		fmt.Fprintf(os.Stderr, "[INFO] Format: %s\n", strings.ToUpper(format))
	}
	return nil
}
