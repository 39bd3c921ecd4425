// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch runs the parse/analyze/fix pipeline over many FastQC
// outputs concurrently, writing per-sample artifacts into an output
// directory plus one aggregate batch report.
package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/seqqc/internal/analyze"
	"github.com/pdiddy/seqqc/internal/fastqc"
	"github.com/pdiddy/seqqc/internal/fixer"
	"github.com/pdiddy/seqqc/pkg/types"
)

// Sample processing outcomes.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// DefaultParallel is the worker count when none is configured.
const DefaultParallel = 4

// SampleResult records one sample's trip through the pipeline.
type SampleResult struct {
	SampleName string `json:"sample_name"`
	InputPath  string `json:"input_path"`
	Status     string `json:"status"`
	Error      string `json:"error_message,omitempty"`

	OverallStatus  types.Verdict `json:"overall_status,omitempty"`
	IssuesFound    int           `json:"issues_found"`
	FixesSuggested int           `json:"fixes_suggested"`

	ParsedJSON   string `json:"parsed_json,omitempty"`
	AnalysisJSON string `json:"analysis_json,omitempty"`
	FixesJSON    string `json:"fixes_json,omitempty"`
}

// Report is the aggregate outcome of one batch run.
type Report struct {
	TotalSamples    int     `json:"total_samples"`
	Successful      int     `json:"successful"`
	Failed          int     `json:"failed"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	DurationSeconds float64 `json:"duration_seconds"`

	Organism       string `json:"organism,omitempty"`
	ExperimentType string `json:"experiment_type,omitempty"`

	PassCount int `json:"pass_count"`
	WarnCount int `json:"warn_count"`
	FailCount int `json:"fail_count"`

	SampleResults []SampleResult `json:"sample_results"`
}

// Options configures a batch run.
type Options struct {
	// OutputDir receives per-sample subdirectories and the batch report.
	OutputDir string

	// Parallel is the worker count; DefaultParallel when zero.
	Parallel int

	// Organism, ExperimentType, ExpectedGC, and ProfileDir configure
	// the shared analyzer exactly as for a single-sample run.
	Organism       string
	ExperimentType string
	ExpectedGC     float64
	ProfileDir     string

	// CheckTools passes tool probing through to the fixer.
	CheckTools bool

	// Logger receives per-sample progress; nop when nil.
	Logger *zap.Logger
}

// Processor runs batches. The analyzer is shared across workers; it is
// read-only after construction.
type Processor struct {
	opts     Options
	analyzer *analyze.Analyzer
	log      *zap.Logger
}

// New builds a Processor, resolving profiles once for the whole batch.
func New(opts Options) *Processor {
	if opts.Parallel <= 0 {
		opts.Parallel = DefaultParallel
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Processor{
		opts: opts,
		analyzer: analyze.New(analyze.Options{
			ExpectedGC:     opts.ExpectedGC,
			Organism:       opts.Organism,
			ExperimentType: opts.ExperimentType,
			ProfileDir:     opts.ProfileDir,
		}),
		log: log,
	}
}

// Run processes every input path and writes the batch report. A
// failing sample never aborts the batch; it is recorded and counted.
// Cancellation stops scheduling new samples.
func (p *Processor) Run(ctx context.Context, inputs []string) (*Report, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no input paths given")
	}
	if err := os.MkdirAll(p.opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	for _, warning := range p.analyzer.Warnings() {
		p.log.Warn("profile resolution", zap.String("warning", warning))
	}

	start := time.Now()
	p.log.Info("batch started",
		zap.Int("samples", len(inputs)),
		zap.Int("parallel", p.opts.Parallel))

	jobs := make(chan int)
	results := make([]SampleResult, len(inputs))
	var wg sync.WaitGroup

	for w := 0; w < p.opts.Parallel; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = p.processOne(inputs[i])
			}
		}()
	}

schedule:
	for i := range inputs {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break schedule
		}
	}
	close(jobs)
	wg.Wait()

	report := p.summarize(inputs, results, start)
	if err := writeJSON(filepath.Join(p.opts.OutputDir, "batch_report.json"), report); err != nil {
		return nil, err
	}

	p.log.Info("batch finished",
		zap.Int("successful", report.Successful),
		zap.Int("failed", report.Failed),
		zap.Float64("seconds", report.DurationSeconds))
	return report, nil
}

// processOne runs parse, analyze, and fix for a single input path and
// writes the three artifacts under OutputDir/<sample>/.
func (p *Processor) processOne(input string) SampleResult {
	result := SampleResult{
		SampleName: fastqc.SampleName(input),
		InputPath:  input,
		Status:     StatusFailed,
	}

	report, err := fastqc.Parse(input)
	if err != nil {
		result.Error = err.Error()
		p.log.Warn("parse failed", zap.String("input", input), zap.Error(err))
		return result
	}
	result.SampleName = report.SampleName

	sampleDir := filepath.Join(p.opts.OutputDir, report.SampleName)
	if err := os.MkdirAll(sampleDir, 0o755); err != nil {
		result.Error = err.Error()
		return result
	}

	result.ParsedJSON = filepath.Join(sampleDir, report.SampleName+"_parsed.json")
	if err := writeJSON(result.ParsedJSON, report); err != nil {
		result.Error = err.Error()
		return result
	}

	assessment, err := p.analyzer.Assess(report)
	if err != nil {
		result.Error = err.Error()
		p.log.Warn("analysis failed", zap.String("sample", report.SampleName), zap.Error(err))
		return result
	}

	result.AnalysisJSON = filepath.Join(sampleDir, report.SampleName+"_analysis.json")
	if err := writeJSON(result.AnalysisJSON, assessment); err != nil {
		result.Error = err.Error()
		return result
	}

	fixes := fixer.New(fixer.Options{
		InputReads: report.Filename,
		CheckTools: p.opts.CheckTools,
	}).Generate(assessment, report)

	result.FixesJSON = filepath.Join(sampleDir, report.SampleName+"_fixes.json")
	if err := writeJSON(result.FixesJSON, fixes); err != nil {
		result.Error = err.Error()
		return result
	}

	result.Status = StatusSuccess
	result.OverallStatus = assessment.OverallStatus
	result.IssuesFound = assessment.IssueCount()
	result.FixesSuggested = len(fixes.Fixes)

	p.log.Info("sample processed",
		zap.String("sample", report.SampleName),
		zap.String("status", string(assessment.OverallStatus)),
		zap.Int("issues", result.IssuesFound))
	return result
}

func (p *Processor) summarize(inputs []string, results []SampleResult, start time.Time) *Report {
	end := time.Now()
	report := &Report{
		TotalSamples:    len(inputs),
		StartTime:       start.Format(time.RFC3339),
		EndTime:         end.Format(time.RFC3339),
		DurationSeconds: end.Sub(start).Seconds(),
		Organism:        p.opts.Organism,
		ExperimentType:  p.opts.ExperimentType,
		SampleResults:   results,
	}

	for _, r := range results {
		if r.Status != StatusSuccess {
			report.Failed++
			continue
		}
		report.Successful++
		switch r.OverallStatus {
		case types.VerdictPass:
			report.PassCount++
		case types.VerdictWarn:
			report.WarnCount++
		case types.VerdictFail:
			report.FailCount++
		}
	}
	return report
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
