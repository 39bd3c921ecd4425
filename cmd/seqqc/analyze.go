// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/seqqc/internal/analyze"
	"github.com/pdiddy/seqqc/pkg/types"
)

// maxDisplayedRecommendations caps the terminal summary; the full list
// is always in the JSON output.
const maxDisplayedRecommendations = 8

var analyzeCmd = &cobra.Command{
	Use:   "analyze [parsed-json]",
	Short: "Assess QC metrics against organism and experiment profiles",
	Long: `Analyze evaluates a parsed FastQC report against rule-based quality
thresholds. Organism and experiment-type profiles adjust the
thresholds; both accept fuzzy names ("Human", "rna seq"). The
assessment is written as JSON and summarized on the terminal.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("output", "analysis.json", "output file")
	analyzeCmd.Flags().Float64("expected-gc", 0, "expected GC content when no organism profile is given")
	analyzeCmd.Flags().String("organism", "", "organism profile (see 'seqqc profiles')")
	analyzeCmd.Flags().String("experiment-type", "", "experiment type profile (wgs, rnaseq, chipseq, ...)")
	analyzeCmd.Flags().Bool("verbose", false, "verbose logging")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	expectedGC, _ := cmd.Flags().GetFloat64("expected-gc")
	organism, _ := cmd.Flags().GetString("organism")
	experimentType, _ := cmd.Flags().GetString("experiment-type")
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

	if verbose {
		fmt.Fprintf(os.Stderr, "[INFO] Analyzing parsed data: %s\n", args[0])
		if organism != "" {
			fmt.Fprintf(os.Stderr, "[INFO] Using organism profile: %s\n", organism)
		}
		if experimentType != "" {
			fmt.Fprintf(os.Stderr, "[INFO] Using experiment type: %s\n", experimentType)
		}
	}

	analyzer := analyze.New(analyze.Options{
		ExpectedGC:     expectedGC,
		Organism:       organism,
		ExperimentType: experimentType,
		ProfileDir:     cfg.Analysis.ProfileDir,
	})
	for _, warning := range analyzer.Warnings() {
		fmt.Fprintf(os.Stderr, "[WARN] %s\n", warning)
	}

	assessment, err := analyzer.AssessFile(args[0])
	if err != nil {
		return err
	}
	if err := writeOutput(output, assessment); err != nil {
		return err
	}

	printAnalysisSummary(assessment, output)
	return nil
}

func printAnalysisSummary(a *types.SampleAssessment, output string) {
	divider := strings.Repeat("=", 70)

	fmt.Println(divider)
	fmt.Println("QC ANALYSIS")
	fmt.Println(divider)
	fmt.Printf("Sample  : %s\n", a.SampleName)
	fmt.Printf("Status  : %s\n", strings.ToUpper(a.OverallStatus.String()))
	if a.ProfileInfo != "" {
		fmt.Printf("Profile : %s\n", a.ProfileInfo)
	}
	fmt.Println()

	for _, metric := range metricDisplayOrder(a.Metrics) {
		m := a.Metrics[metric]
		fmt.Printf("  %s %-28s : %s\n", statusTag(m.Status), metric, m.Summary)
	}

	if len(a.AllRecommendations) > 0 {
		fmt.Println()
		fmt.Println("Recommendations:")
		for i, rec := range a.AllRecommendations {
			if i == maxDisplayedRecommendations {
				fmt.Printf("  ... (%d more recommendations)\n", len(a.AllRecommendations)-i)
				break
			}
			fmt.Printf("  %d. %s\n", i+1, rec)
		}
	}

	fmt.Println()
	fmt.Printf("Output saved to: %s\n", output)
	fmt.Println(divider)
}

func statusTag(v types.Verdict) string {
	return "[" + strings.ToUpper(v.String()) + "]"
}

// metricDisplayOrder lists the evaluated metrics in canonical order.
func metricDisplayOrder(metrics map[string]types.MetricAssessment) []string {
	var order []string
	for _, metric := range types.MetricOrder {
		if _, ok := metrics[metric]; ok {
			order = append(order, metric)
		}
	}
	return order
}
