// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline executes the full QC workflow for one sample:
// parse, analyze, generate fixes, run the top-priority fix, re-run
// FastQC on the cleaned reads, and compare per-metric verdicts before
// and after. External commands are split into argv with shellquote and
// run directly, never through a shell.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"

	"github.com/pdiddy/seqqc/internal/analyze"
	"github.com/pdiddy/seqqc/internal/fastqc"
	"github.com/pdiddy/seqqc/internal/fixer"
	"github.com/pdiddy/seqqc/pkg/types"
)

// Step statuses.
const (
	StepSuccess = "success"
	StepFailed  = "failed"
	StepSkipped = "skipped"
)

// DefaultTimeout bounds each external command.
const DefaultTimeout = 10 * time.Minute

// Step records one stage of the workflow.
type Step struct {
	Name            string  `json:"name"`
	Status          string  `json:"status"`
	Command         string  `json:"command,omitempty"`
	Output          string  `json:"output,omitempty"`
	Error           string  `json:"error,omitempty"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// Comparison is a before/after verdict pair for one metric.
type Comparison struct {
	Metric       string        `json:"metric"`
	BeforeStatus types.Verdict `json:"before_status"`
	AfterStatus  types.Verdict `json:"after_status"`
	BeforeValue  string        `json:"before_value"`
	AfterValue   string        `json:"after_value"`
	Improved     bool          `json:"improved"`
	Description  string        `json:"description"`
}

// Result is the complete pipeline outcome, written to
// pipeline_result.json in the output directory.
type Result struct {
	InputFile          string       `json:"input_file"`
	OutputFile         string       `json:"output_file"`
	Steps              []Step       `json:"steps"`
	Comparisons        []Comparison `json:"comparisons"`
	OverallImprovement bool         `json:"overall_improvement"`
	FixesExecuted      int          `json:"fixes_executed"`
	MetricsImproved    int          `json:"metrics_improved"`
	MetricsDegraded    int          `json:"metrics_degraded"`
}

// executor runs an external command and returns its combined output.
type executor interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

type osExecutor struct{}

func (osExecutor) Run(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	return string(out), err
}

// Options configures a pipeline run.
type Options struct {
	// InputFastq is the reads file; its FastQC output must sit next to
	// it as <sample>_fastqc/ or <sample>_fastqc.zip.
	InputFastq string

	// OutputDir receives all artifacts; "pipeline_output" when empty.
	OutputDir string

	// Organism and ExperimentType select threshold profiles for both
	// the before and after analyses; ProfileDir overrides the embedded
	// profile set.
	Organism       string
	ExperimentType string
	ProfileDir     string

	// CheckTools narrows fix suggestions to installed tools.
	CheckTools bool

	// DryRun stops after generating fixes; nothing is executed.
	DryRun bool

	// Timeout bounds each external command; DefaultTimeout when zero.
	Timeout time.Duration

	// Logger receives step progress; nop when nil.
	Logger *zap.Logger
}

// Runner drives the workflow for a single sample.
type Runner struct {
	opts Options
	log  *zap.Logger
	exec executor

	sampleName  string
	fastqcInput string
	fixedFastq  string
	afterDir    string
}

// New builds a Runner.
func New(opts Options) *Runner {
	return newRunner(opts, osExecutor{})
}

func newRunner(opts Options, e executor) *Runner {
	if opts.OutputDir == "" {
		opts.OutputDir = "pipeline_output"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	sample := sampleName(opts.InputFastq)
	return &Runner{
		opts:        opts,
		log:         log,
		exec:        e,
		sampleName:  sample,
		fastqcInput: findFastQCInput(opts.InputFastq, sample),
		fixedFastq:  filepath.Join(opts.OutputDir, sample+"_fixed.fastq.gz"),
		afterDir:    filepath.Join(opts.OutputDir, sample+"_fixed_fastqc"),
	}
}

// sampleName strips compression and reads-file extensions from the
// input path's base name.
func sampleName(input string) string {
	name := filepath.Base(input)
	for _, ext := range []string{".gz", ".fastq", ".fq"} {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}

// findFastQCInput locates the FastQC output next to the reads file,
// preferring an extracted directory over the zip.
func findFastQCInput(input, sample string) string {
	base := filepath.Dir(input)
	for _, candidate := range []string{sample + "_fastqc", sample + "_fastqc.zip"} {
		path := filepath.Join(base, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Run executes the workflow. A failing step stops the run; the partial
// result, including the failed step, is still written to
// pipeline_result.json.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if err := os.MkdirAll(r.opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	result := &Result{
		InputFile:  r.opts.InputFastq,
		OutputFile: r.fixedFastq,
	}
	if r.opts.DryRun {
		result.OutputFile = "N/A (dry-run)"
	}

	err := r.runSteps(ctx, result)

	if werr := writeJSON(filepath.Join(r.opts.OutputDir, "pipeline_result.json"), result); werr != nil {
		if err == nil {
			err = werr
		}
	}
	return result, err
}

func (r *Runner) runSteps(ctx context.Context, result *Result) error {
	var (
		before *types.SampleAssessment
		after  *types.SampleAssessment
		fixes  *types.FixResult
		report *types.Report
	)

	err := r.step(result, "Parse Initial FastQC", func(step *Step) error {
		if r.fastqcInput == "" {
			return fmt.Errorf("FastQC output not found for %s", r.opts.InputFastq)
		}
		parsed, err := fastqc.Parse(r.fastqcInput)
		if err != nil {
			return err
		}
		report = parsed
		path := filepath.Join(r.opts.OutputDir, "before_parsed.json")
		if err := writeJSON(path, report); err != nil {
			return err
		}
		step.Output = path
		return nil
	})
	if err != nil {
		return err
	}

	analyzer := analyze.New(analyze.Options{
		Organism:       r.opts.Organism,
		ExperimentType: r.opts.ExperimentType,
		ProfileDir:     r.opts.ProfileDir,
	})

	err = r.step(result, "Analyze Initial QC", func(step *Step) error {
		assessment, err := analyzer.Assess(report)
		if err != nil {
			return err
		}
		before = assessment
		path := filepath.Join(r.opts.OutputDir, "before_analysis.json")
		if err := writeJSON(path, before); err != nil {
			return err
		}
		step.Output = path
		return nil
	})
	if err != nil {
		return err
	}

	err = r.step(result, "Generate Fixes", func(step *Step) error {
		fixes = fixer.New(fixer.Options{
			InputReads: r.opts.InputFastq,
			CheckTools: r.opts.CheckTools,
		}).Generate(before, report)
		if err := writeJSON(filepath.Join(r.opts.OutputDir, "fixes.json"), fixes); err != nil {
			return err
		}
		step.Output = fmt.Sprintf("Generated %d fixes", len(fixes.Fixes))
		return nil
	})
	if err != nil {
		return err
	}

	if r.opts.DryRun {
		r.record(result, Step{
			Name:   "Execute Fixes",
			Status: StepSkipped,
			Output: "Dry-run mode - fixes not executed",
		})
		return nil
	}

	executed := false
	err = r.step(result, "Execute Fixes", func(step *Step) error {
		fix, ok := runnableFix(fixes)
		if !ok {
			step.Status = StepSkipped
			step.Output = "No fixes to execute"
			return nil
		}
		command := r.rewriteCommand(fix.Command, fixes)
		step.Command = command
		if out, err := r.execute(ctx, command); err != nil {
			return fmt.Errorf("%w: %s", err, strings.TrimSpace(out))
		}
		executed = true
		step.Output = "Executed: " + fix.Description
		return nil
	})
	if err != nil {
		return err
	}
	if !executed {
		return nil
	}
	result.FixesExecuted = 1

	err = r.step(result, "Run FastQC on Fixed File", func(step *Step) error {
		command := fmt.Sprintf("fastqc %s -o %s", r.fixedFastq, r.opts.OutputDir)
		step.Command = command
		if out, err := r.execute(ctx, command); err != nil {
			return fmt.Errorf("%w: %s", err, strings.TrimSpace(out))
		}
		step.Output = "FastQC results: " + r.afterDir
		return nil
	})
	if err != nil {
		return err
	}

	err = r.step(result, "Parse Fixed FastQC", func(step *Step) error {
		parsed, err := fastqc.Parse(r.afterDir)
		if err != nil {
			return err
		}
		report = parsed
		path := filepath.Join(r.opts.OutputDir, "after_parsed.json")
		if err := writeJSON(path, report); err != nil {
			return err
		}
		step.Output = path
		return nil
	})
	if err != nil {
		return err
	}

	err = r.step(result, "Analyze Fixed QC", func(step *Step) error {
		assessment, err := analyzer.Assess(report)
		if err != nil {
			return err
		}
		after = assessment
		path := filepath.Join(r.opts.OutputDir, "after_analysis.json")
		if err := writeJSON(path, after); err != nil {
			return err
		}
		step.Output = path
		return nil
	})
	if err != nil {
		return err
	}

	return r.step(result, "Compare Results", func(step *Step) error {
		comparisons := Compare(before, after)
		result.Comparisons = comparisons
		for _, c := range comparisons {
			switch {
			case c.Improved:
				result.MetricsImproved++
			case c.AfterStatus.WorseThan(c.BeforeStatus):
				result.MetricsDegraded++
			}
		}
		result.OverallImprovement = result.MetricsImproved > result.MetricsDegraded

		path := filepath.Join(r.opts.OutputDir, "comparison.json")
		if err := writeJSON(path, comparisonDoc(before, after, comparisons, result)); err != nil {
			return err
		}
		step.Output = fmt.Sprintf("Improved: %d, Degraded: %d",
			result.MetricsImproved, result.MetricsDegraded)
		return nil
	})
}

// step times fn, records the outcome, and wraps any failure with the
// step name.
func (r *Runner) step(result *Result, name string, fn func(step *Step) error) error {
	step := Step{Name: name, Status: StepSuccess}
	start := time.Now()
	err := fn(&step)
	step.DurationSeconds = time.Since(start).Seconds()
	if err != nil {
		step.Status = StepFailed
		step.Error = err.Error()
	}
	r.record(result, step)
	if err != nil {
		return fmt.Errorf("%s: %w", strings.ToLower(name), err)
	}
	return nil
}

func (r *Runner) record(result *Result, step Step) {
	result.Steps = append(result.Steps, step)
	r.log.Info("pipeline step",
		zap.String("step", step.Name),
		zap.String("status", step.Status))
}

// runnableFix picks the first suggestion carrying an executable
// command; advisory entries are shell comments and are skipped.
func runnableFix(fixes *types.FixResult) (types.FixSuggestion, bool) {
	for _, fix := range fixes.Fixes {
		if fix.Command != "" && !strings.HasPrefix(fix.Command, "#") {
			return fix, true
		}
	}
	return types.FixSuggestion{}, false
}

// rewriteCommand points the generated command at the real input reads
// and the pipeline's output location.
func (r *Runner) rewriteCommand(command string, fixes *types.FixResult) string {
	command = strings.ReplaceAll(command, fixes.InputFile, r.opts.InputFastq)
	command = strings.ReplaceAll(command, fixes.SampleName+"_trimmed.fastq.gz", r.fixedFastq)
	command = strings.ReplaceAll(command, fixes.SampleName+"_R1_trimmed.fastq.gz", r.fixedFastq)
	return command
}

func (r *Runner) execute(ctx context.Context, command string) (string, error) {
	argv, err := shellquote.Split(command)
	if err != nil {
		return "", fmt.Errorf("splitting command: %w", err)
	}
	if len(argv) == 0 {
		return "", fmt.Errorf("empty command")
	}
	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()
	return r.exec.Run(ctx, argv[0], argv[1:]...)
}

// Compare pairs up per-metric verdicts from two assessments, in
// canonical metric order. Metrics missing from either side are
// omitted.
func Compare(before, after *types.SampleAssessment) []Comparison {
	var comparisons []Comparison
	for _, metric := range types.MetricOrder {
		b, okB := before.Metrics[metric]
		a, okA := after.Metrics[metric]
		if !okB || !okA {
			continue
		}
		comparisons = append(comparisons, Comparison{
			Metric:       metric,
			BeforeStatus: b.Status,
			AfterStatus:  a.Status,
			BeforeValue:  b.Summary,
			AfterValue:   a.Summary,
			Improved:     b.Status.WorseThan(a.Status),
			Description:  fmt.Sprintf("%s: %s -> %s", metricTitle(metric), b.Status, a.Status),
		})
	}
	return comparisons
}

func metricTitle(metric string) string {
	words := strings.Split(metric, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func comparisonDoc(before, after *types.SampleAssessment, comparisons []Comparison, result *Result) map[string]any {
	return map[string]any{
		"before":      before,
		"after":       after,
		"comparisons": comparisons,
		"summary": map[string]any{
			"improved":            result.MetricsImproved,
			"degraded":            result.MetricsDegraded,
			"unchanged":           len(comparisons) - result.MetricsImproved - result.MetricsDegraded,
			"overall_improvement": result.OverallImprovement,
		},
	}
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
