// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyze orchestrates a full QC assessment of one sample:
// profile resolution, per-metric rule evaluation, adaptive quality
// calibration, and verdict aggregation.
package analyze

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"

	"github.com/pdiddy/seqqc/internal/calibrate"
	"github.com/pdiddy/seqqc/internal/profile"
	"github.com/pdiddy/seqqc/internal/rules"
	"github.com/pdiddy/seqqc/pkg/types"
)

// ErrMissingSampleName rejects input data without a sample identity;
// everything downstream keys on it.
var ErrMissingSampleName = errors.New("missing required field: sample_name")

// Options configures an Analyzer.
type Options struct {
	// ExpectedGC is the expected mean GC percentage when no organism
	// profile supplies one. Zero means use the baseline.
	ExpectedGC float64

	// Organism and ExperimentType name the profiles to apply; either or
	// both may be empty.
	Organism       string
	ExperimentType string

	// ProfileDir optionally overrides the embedded profile set.
	ProfileDir string
}

// Analyzer assesses parsed FastQC reports against resolved thresholds.
// Build one per organism/experiment pairing; it is safe for repeated
// use across samples because resolution happens once and the resolved
// configuration is never mutated.
type Analyzer struct {
	opts     Options
	cfg      types.ThresholdConfig
	engine   *rules.Engine
	warnings []string
}

// New resolves profiles and builds the rule engine. Profile lookup
// failures degrade to the baseline configuration and are reported by
// Warnings.
func New(opts Options) *Analyzer {
	store := profile.NewStore(opts.ProfileDir)
	cfg, warnings := store.Combined(opts.Organism, opts.ExperimentType)

	// A caller-supplied expectation stands in for an organism profile
	// when none was applied.
	if opts.Organism == "" && opts.ExpectedGC > 0 {
		cfg.GCContent.Mean = opts.ExpectedGC
	}

	return &Analyzer{
		opts:     opts,
		cfg:      cfg,
		engine:   rules.NewEngine(&cfg),
		warnings: warnings,
	}
}

// Warnings returns profile-resolution warnings collected at build time.
func (a *Analyzer) Warnings() []string {
	return a.warnings
}

// Thresholds returns the resolved configuration the analyzer evaluates
// against.
func (a *Analyzer) Thresholds() types.ThresholdConfig {
	return a.cfg
}

// Assess evaluates one report. Per-base quality, GC content, and
// duplication are assessed only when the report carries their data;
// adapter content and overrepresented sequences are always assessed
// because their absence is itself a clean result.
func (a *Analyzer) Assess(report *types.Report) (*types.SampleAssessment, error) {
	if report == nil {
		return nil, errors.New("nil report")
	}
	if report.SampleName == "" {
		return nil, ErrMissingSampleName
	}

	results := make(map[string]rules.Evaluation)
	var recommendations []string

	record := func(metric string, ev rules.Evaluation) {
		results[metric] = ev
		recommendations = append(recommendations, ev.Recommendations...)
	}

	if len(report.PerBaseQuality) > 0 {
		record(types.MetricPerBaseQuality, a.engine.EvaluatePerBaseQuality(report.PerBaseQuality))
	}
	if report.GCContentMean > 0 {
		record(types.MetricGCContent, a.engine.EvaluateGCContent(report.GCContentMean, a.cfg.GCContent.Mean))
	}
	if len(report.DuplicationLevels) > 0 {
		record(types.MetricDuplication, a.engine.EvaluateDuplication(report.DuplicationLevels))
	}
	record(types.MetricAdapterContent, a.engine.EvaluateAdapterContent(report.AdapterContent))
	record(types.MetricOverrepresented, a.engine.EvaluateOverrepresented(report.OverrepresentedSequences))

	// Calibration is advisory: it never changes a verdict, but a shaky
	// quality distribution is worth surfacing next to the rule output.
	if len(report.PerBaseQuality) > 0 {
		cal := calibrate.Calibrate(report.PerBaseQuality)
		if cal.Confidence == calibrate.ConfidenceLow || cal.Trend == calibrate.TrendDegrading {
			recommendations = append(recommendations, "Adaptive calibration: "+cal.Interpret())
		}
	}

	overallStatus, overallSummary := rules.Aggregate(results)

	metrics := make(map[string]types.MetricAssessment, len(results))
	for name, ev := range results {
		metrics[name] = types.MetricAssessment{
			Status:          ev.Status,
			Summary:         ev.Summary,
			Recommendations: ev.Recommendations,
		}
	}

	return &types.SampleAssessment{
		SampleName:         report.SampleName,
		OverallStatus:      overallStatus,
		OverallSummary:     overallSummary,
		Metrics:            metrics,
		AllRecommendations: lo.Uniq(recommendations),
		Organism:           a.opts.Organism,
		ExperimentType:     a.opts.ExperimentType,
		ProfileInfo:        a.profileInfo(),
	}, nil
}

// AssessFile loads a parsed-report JSON file and assesses it.
func (a *Analyzer) AssessFile(path string) (*types.SampleAssessment, error) {
	report, err := LoadReport(path)
	if err != nil {
		return nil, err
	}
	return a.Assess(report)
}

// LoadReport reads a JSON-serialized report, as written by the parse
// step, and validates that it names its sample.
func LoadReport(path string) (*types.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading parsed report: %w", err)
	}

	report := &types.Report{TotalDeduplicatedPercentage: 100.0}
	if err := json.Unmarshal(data, report); err != nil {
		return nil, fmt.Errorf("decoding parsed report: %w", err)
	}
	if report.SampleName == "" {
		return nil, ErrMissingSampleName
	}
	return report, nil
}

// profileInfo builds the display string for the applied profiles, one
// segment per requested profile.
func (a *Analyzer) profileInfo() string {
	var parts []string
	if a.opts.Organism != "" {
		parts = append(parts, "Organism: "+a.cfg.OrganismName)
	}
	if a.opts.ExperimentType != "" {
		parts = append(parts, "Experiment: "+a.cfg.ExperimentName)
	}
	return strings.Join(parts, " | ")
}
