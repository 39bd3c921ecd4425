// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/seqqc/internal/pipeline"
)

const defaultPipelineOutputDir = "pipeline_output"

var pipelineCmd = &cobra.Command{
	Use:   "pipeline [input-fastq]",
	Short: "Run the full QC workflow with before/after verification",
	Long: `Pipeline parses the FastQC output next to the given reads file,
analyzes it, executes the highest-priority fix, re-runs FastQC on the
cleaned reads, and compares per-metric verdicts before and after.
With --dry-run, nothing is executed and the workflow stops after fix
generation.`,
	Args: cobra.ExactArgs(1),
	RunE: runPipeline,
}

func init() {
	pipelineCmd.Flags().String("output-dir", "", "output directory (default pipeline_output)")
	pipelineCmd.Flags().String("organism", "", "organism profile")
	pipelineCmd.Flags().String("experiment-type", "", "experiment type profile")
	pipelineCmd.Flags().Bool("check-tools", true, "check tool availability")
	pipelineCmd.Flags().Bool("dry-run", false, "show what would be done without executing")
	pipelineCmd.Flags().Duration("timeout", 0, "per-command timeout (default 10m)")
	pipelineCmd.Flags().Bool("verbose", false, "verbose logging")

	rootCmd.AddCommand(pipelineCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	outputDir, _ := cmd.Flags().GetString("output-dir")
	organism, _ := cmd.Flags().GetString("organism")
	experimentType, _ := cmd.Flags().GetString("experiment-type")
	checkTools, _ := cmd.Flags().GetBool("check-tools")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	verbose, _ := cmd.Flags().GetBool("verbose")

	if organism == "" {
		organism = cfg.Analysis.Organism
	}
	if experimentType == "" {
		experimentType = cfg.Analysis.ExperimentType
	}
	if outputDir == "" {
		outputDir = cfg.Workflow.OutputDir
	}
	if outputDir == "" {
		outputDir = defaultPipelineOutputDir
	}
	if timeout == 0 {
		timeout = cfg.Workflow.ExecTimeout
	}
	dryRun = dryRun || cfg.Workflow.DryRun

	if verbose {
		fmt.Fprintf(os.Stderr, "[INFO] Starting pipeline for: %s\n", args[0])
		if dryRun {
			fmt.Fprintln(os.Stderr, "[INFO] DRY-RUN MODE - No fixes will be executed")
		}
	}

	runner := pipeline.New(pipeline.Options{
		InputFastq:     args[0],
		OutputDir:      outputDir,
		Organism:       organism,
		ExperimentType: experimentType,
		ProfileDir:     cfg.Analysis.ProfileDir,
		CheckTools:     checkTools,
		DryRun:         dryRun,
		Timeout:        timeout,
		Logger:         newLogger(verbose),
	})

	result, err := runner.Run(context.Background())
	if err != nil {
		return err
	}

	printPipelineSummary(result, outputDir, dryRun)
	return nil
}

func printPipelineSummary(result *pipeline.Result, outputDir string, dryRun bool) {
	divider := strings.Repeat("=", 70)

	fmt.Println(divider)
	fmt.Println("PIPELINE EXECUTION SUMMARY")
	fmt.Println(divider)

	if dryRun {
		fmt.Println("Dry-run completed - no fixes executed")
		fmt.Println("Run without --dry-run to execute fixes")
		fmt.Println(divider)
		return
	}

	unchanged := len(result.Comparisons) - result.MetricsImproved - result.MetricsDegraded
	fmt.Println("Metrics comparison:")
	fmt.Printf("  Improved : %d\n", result.MetricsImproved)
	fmt.Printf("  Degraded : %d\n", result.MetricsDegraded)
	fmt.Printf("  Unchanged: %d\n", unchanged)

	if result.OverallImprovement {
		fmt.Println("\nOVERALL: Quality IMPROVED")
	} else {
		fmt.Println("\nOVERALL: No significant improvement")
	}

	for _, comp := range result.Comparisons {
		if comp.Improved {
			fmt.Printf("  + %s\n", comp.Description)
		}
	}

	fmt.Println()
	fmt.Printf("Fixed file: %s\n", result.OutputFile)
	fmt.Printf("Results   : %s/pipeline_result.json\n", outputDir)
	fmt.Println(divider)
}
