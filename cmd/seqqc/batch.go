// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/seqqc/internal/batch"
)

const defaultBatchOutputDir = "batch_output"

var batchCmd = &cobra.Command{
	Use:   "batch [samples...]",
	Short: "Process many samples through parse, analyze, and fix",
	Long: `Batch runs the full per-sample workflow over many FastQC outputs in
parallel. Samples are given either as FastQC directories/zips on the
command line or as a single .txt/.list file with one path per line.
Each sample gets its own output directory; a batch report summarizes
the run.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().String("organism", "", "organism profile for all samples")
	batchCmd.Flags().String("experiment-type", "", "experiment type profile for all samples")
	batchCmd.Flags().Float64("expected-gc", 0, "expected GC content when no organism profile is given")
	batchCmd.Flags().String("output-dir", "", "output directory (default batch_output)")
	batchCmd.Flags().Int("parallel", 0, "number of samples processed concurrently (default 4)")
	batchCmd.Flags().Bool("check-tools", true, "check tool availability when generating fixes")
	batchCmd.Flags().Bool("verbose", false, "verbose logging")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	organism, _ := cmd.Flags().GetString("organism")
	experimentType, _ := cmd.Flags().GetString("experiment-type")
	expectedGC, _ := cmd.Flags().GetFloat64("expected-gc")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	parallel, _ := cmd.Flags().GetInt("parallel")
	checkTools, _ := cmd.Flags().GetBool("check-tools")
	verbose, _ := cmd.Flags().GetBool("verbose")

	if organism == "" {
		organism = cfg.Analysis.Organism
	}
	if experimentType == "" {
		experimentType = cfg.Analysis.ExperimentType
	}
	if expectedGC == 0 {
		expectedGC = cfg.Analysis.ExpectedGC
	}
	if outputDir == "" {
		outputDir = cfg.Batch.OutputDir
	}
	if outputDir == "" {
		outputDir = defaultBatchOutputDir
	}
	if parallel == 0 {
		parallel = cfg.Batch.Parallel
	}
	// The flag defaults to true, so the config value applies only when
	// the flag was not given and the key is actually present.
	if !cmd.Flags().Changed("check-tools") && viper.IsSet("batch.check_tools") {
		checkTools = cfg.Batch.CheckTools
	}

	inputs, err := expandSampleList(args)
	if err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "[INFO] Loaded %d samples\n", len(inputs))
	}

	processor := batch.New(batch.Options{
		OutputDir:      outputDir,
		Parallel:       parallel,
		Organism:       organism,
		ExperimentType: experimentType,
		ExpectedGC:     expectedGC,
		ProfileDir:     cfg.Analysis.ProfileDir,
		CheckTools:     checkTools,
		Logger:         newLogger(verbose),
	})

	report, err := processor.Run(context.Background(), inputs)
	if err != nil {
		return err
	}

	printBatchSummary(report, outputDir)

	if report.Successful == 0 {
		return fmt.Errorf("all %d samples failed processing", report.Failed)
	}
	return nil
}

// expandSampleList resolves the sample arguments: a single .txt/.list
// file is read as one path per line (blank lines and # comments
// skipped); anything else is taken as FastQC paths directly.
func expandSampleList(args []string) ([]string, error) {
	if len(args) != 1 || !(strings.HasSuffix(args[0], ".txt") || strings.HasSuffix(args[0], ".list")) {
		return args, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("reading sample list: %w", err)
	}

	var inputs []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		inputs = append(inputs, line)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("sample list %s is empty", args[0])
	}
	return inputs, nil
}

func printBatchSummary(report *batch.Report, outputDir string) {
	divider := strings.Repeat("=", 70)

	fmt.Println(divider)
	fmt.Println("BATCH PROCESSING SUMMARY")
	fmt.Println(divider)
	fmt.Printf("Processed %d/%d samples\n", report.Successful, report.TotalSamples)

	if report.Successful > 0 {
		pct := func(n int) float64 { return float64(n) / float64(report.Successful) * 100 }
		fmt.Printf("  [PASS] %d (%.0f%%)\n", report.PassCount, pct(report.PassCount))
		fmt.Printf("  [WARN] %d (%.0f%%)\n", report.WarnCount, pct(report.WarnCount))
		fmt.Printf("  [FAIL] %d (%.0f%%)\n", report.FailCount, pct(report.FailCount))
	}
	if report.Failed > 0 {
		fmt.Printf("  Failed: %d samples\n", report.Failed)
		for _, r := range report.SampleResults {
			if r.Status != batch.StatusSuccess {
				fmt.Printf("    %s: %s\n", r.SampleName, r.Error)
			}
		}
	}

	fmt.Println()
	fmt.Printf("Output : %s\n", outputDir)
	fmt.Printf("Report : %s/batch_report.json\n", outputDir)
	fmt.Println(divider)
}
