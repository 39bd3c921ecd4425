// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/seqqc/internal/analyze"
	"github.com/pdiddy/seqqc/internal/fixer"
	"github.com/pdiddy/seqqc/internal/toolcheck"
	"github.com/pdiddy/seqqc/pkg/types"
)

// maxDisplayedPipelineLines caps the terminal pipeline preview.
const maxDisplayedPipelineLines = 15

var fixCmd = &cobra.Command{
	Use:   "fix [analysis-json]",
	Short: "Generate remediation commands for failed QC metrics",
	Long: `Fix maps warned and failed metrics from an analysis to concrete,
prioritized command lines (fastp, Cutadapt, Trimmomatic, Picard) and
assembles them into a suggested cleanup pipeline. With --check-tools,
suggestions are narrowed to tools actually installed on PATH.`,
	Args: cobra.ExactArgs(1),
	RunE: runFix,
}

func init() {
	fixCmd.Flags().String("output", "fixes.json", "output file")
	fixCmd.Flags().String("input-reads", "", "path to raw reads file for concrete commands")
	fixCmd.Flags().String("parsed", "", "parsed-report JSON to refine read length and pairing")
	fixCmd.Flags().Bool("check-tools", false, "check tool availability and filter suggestions")
	fixCmd.Flags().Bool("show-tool-status", false, "display tool availability status")
	fixCmd.Flags().Bool("verbose", false, "verbose logging")

	rootCmd.AddCommand(fixCmd)
}

func runFix(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	inputReads, _ := cmd.Flags().GetString("input-reads")
	parsedPath, _ := cmd.Flags().GetString("parsed")
	checkTools, _ := cmd.Flags().GetBool("check-tools")
	showToolStatus, _ := cmd.Flags().GetBool("show-tool-status")
	verbose, _ := cmd.Flags().GetBool("verbose")

	if verbose {
		fmt.Fprintf(os.Stderr, "[INFO] Generating fix suggestions from: %s\n", args[0])
	}

	if showToolStatus {
		toolcheck.NewChecker().PrintStatus(os.Stdout, true)
		fmt.Println()
	}

	assessment, err := fixer.LoadAssessment(args[0])
	if err != nil {
		return err
	}

	var report *types.Report
	if parsedPath != "" {
		report, err = analyze.LoadReport(parsedPath)
		if err != nil {
			return err
		}
	}

	fixes := fixer.New(fixer.Options{
		InputReads: inputReads,
		CheckTools: checkTools,
	}).Generate(assessment, report)

	if err := writeOutput(output, fixes); err != nil {
		return err
	}

	printFixSummary(fixes, output)

	if verbose {
		if fixes.ToolAvailability != nil {
			ta := fixes.ToolAvailability
			fmt.Fprintf(os.Stderr, "[INFO] Tools available: %d/%d\n",
				len(ta.Installed), len(ta.Installed)+len(ta.Missing))
			if len(ta.Missing) > 0 {
				fmt.Fprintf(os.Stderr, "[WARN] Missing tools: %s\n", strings.Join(ta.Missing, ", "))
			}
		}
		if fixes.ReadLength > 0 {
			fmt.Fprintf(os.Stderr, "[INFO] Detected read length: %dbp\n", fixes.ReadLength)
		}
		if fixes.PairedEnd {
			fmt.Fprintln(os.Stderr, "[INFO] Detected paired-end reads")
		}
	}
	return nil
}

func printFixSummary(fixes *types.FixResult, output string) {
	divider := strings.Repeat("=", 70)

	fmt.Println(divider)
	fmt.Println("FIX SUGGESTIONS")
	fmt.Println(divider)
	fmt.Printf("Total fixes suggested: %d\n", len(fixes.Fixes))
	fmt.Println()

	if len(fixes.Fixes) == 0 {
		fmt.Println("No fixes needed - sample quality is acceptable.")
	}
	for i, fix := range fixes.Fixes {
		fmt.Printf("  %d. [%-6s] %s\n", i+1, strings.ToUpper(string(fix.Priority)), fix.Description)
		if fix.Reason != "" {
			fmt.Printf("     Reason  : %s\n", fix.Reason)
		}
		if fix.ToolRequired != "" {
			fmt.Printf("     Tool    : %s\n", fix.ToolRequired)
		}
		if fix.Command != "" {
			fmt.Printf("     Command : %s\n", fix.Command)
		}
	}

	if len(fixes.SuggestedPipeline) > 0 {
		fmt.Println()
		fmt.Println("Suggested pipeline:")
		for i, line := range fixes.SuggestedPipeline {
			if i == maxDisplayedPipelineLines {
				fmt.Printf("  ... (%d more lines)\n", len(fixes.SuggestedPipeline)-i)
				break
			}
			fmt.Printf("  %s\n", line)
		}
	}

	fmt.Println()
	fmt.Printf("Output saved to: %s\n", output)
	fmt.Println(divider)
}
