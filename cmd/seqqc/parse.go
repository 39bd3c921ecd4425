// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/seqqc/internal/fastqc"
)

var parseCmd = &cobra.Command{
	Use:   "parse [input-path]",
	Short: "Parse FastQC or MultiQC output into normalized JSON",
	Long: `Parse reads a FastQC output directory, a FastQC zip archive, or a
MultiQC data JSON file (multiqc_data.json) and writes a normalized
JSON document consumed by the analyze step. MultiQC input is detected
by the .json extension.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("output", "parsed.json", "output file")
	parseCmd.Flags().Bool("verbose", false, "verbose logging")

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	input := args[0]
	output, _ := cmd.Flags().GetString("output")
	verbose, _ := cmd.Flags().GetBool("verbose")

	if verbose {
		fmt.Fprintf(os.Stderr, "[INFO] Parsing data from: %s\n", input)
	}

	if strings.HasSuffix(input, ".json") {
		summary, err := fastqc.ParseMultiQC(input)
		if err != nil {
			return err
		}
		if err := writeOutput(output, summary); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "[INFO] MultiQC parsing complete. %d samples found\n", summary.TotalSamples)
			fmt.Fprintf(os.Stderr, "[INFO] Output saved to %s\n", output)
		}
		return nil
	}

	report, err := fastqc.Parse(input)
	if err != nil {
		return err
	}
	if err := writeOutput(output, report); err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "[INFO] FastQC parsing complete. Output saved to %s\n", output)
	}
	return nil
}
