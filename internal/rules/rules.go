// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rules evaluates parsed FastQC metrics against QC thresholds
// and produces pass/warn/fail verdicts with human-readable summaries
// and actionable recommendations.
package rules

import (
	"math"

	"github.com/spf13/cast"

	"github.com/pdiddy/seqqc/pkg/types"
)

// Rule is one named threshold pair. Verdicts compare against
// PassThreshold first, then WarnThreshold; the direction of "better"
// depends on the metric.
type Rule struct {
	Name           string
	Description    string
	PassThreshold  float64
	WarnThreshold  float64
	HigherIsBetter bool
}

// Rule keys.
const (
	rulePerBaseQualityMean   = "per_base_quality_mean"
	rulePerBaseQualityMedian = "per_base_quality_median"
	ruleGCContent            = "gc_content"
	ruleGCContentLower       = "gc_content_lower"
	ruleDuplicationLevel     = "duplication_level"
	ruleAdapterContent       = "adapter_content"
	ruleOverrepresented      = "overrepresented_sequences"
)

// defaultRules returns the industry-standard baseline set, built fresh
// per engine so threshold overrides never bleed between samples.
func defaultRules() map[string]Rule {
	return map[string]Rule{
		rulePerBaseQualityMean: {
			Name:           "Per Base Quality (Mean)",
			Description:    "Average quality score across all bases should be high",
			PassThreshold:  28.0, // Q28 = 99.84% accuracy
			WarnThreshold:  20.0, // Q20 = 99% accuracy
			HigherIsBetter: true,
		},
		rulePerBaseQualityMedian: {
			Name:           "Per Base Quality (Median)",
			Description:    "Median quality score should be consistently high",
			PassThreshold:  30.0, // Q30 = 99.9% accuracy
			WarnThreshold:  25.0,
			HigherIsBetter: true,
		},
		ruleGCContent: {
			Name:           "GC Content",
			Description:    "GC content should be within expected range for organism",
			PassThreshold:  65.0, // upper bound
			WarnThreshold:  70.0,
			HigherIsBetter: false,
		},
		ruleGCContentLower: {
			Name:           "GC Content (Lower Bound)",
			Description:    "GC content should not be too low",
			PassThreshold:  35.0, // lower bound
			WarnThreshold:  30.0,
			HigherIsBetter: true,
		},
		ruleDuplicationLevel: {
			Name:           "Sequence Duplication Level",
			Description:    "High duplication may indicate PCR over-amplification or low complexity",
			PassThreshold:  20.0,
			WarnThreshold:  50.0,
			HigherIsBetter: false,
		},
		ruleAdapterContent: {
			Name:           "Adapter Content",
			Description:    "Adapter sequences should be minimal or absent",
			PassThreshold:  5.0,
			WarnThreshold:  10.0,
			HigherIsBetter: false,
		},
		ruleOverrepresented: {
			Name:           "Overrepresented Sequences",
			Description:    "Number of overrepresented sequences (contamination indicator)",
			PassThreshold:  5.0,
			WarnThreshold:  10.0,
			HigherIsBetter: false,
		},
	}
}

// Evaluation is the outcome of one metric evaluation.
type Evaluation struct {
	Status          types.Verdict
	Summary         string
	Recommendations []string
}

// Engine evaluates metrics against its rule set. Build one per sample
// with NewEngine; a nil config yields the baseline rules with the
// generic GC fallback.
type Engine struct {
	rules map[string]Rule

	// gc and special carry the profile-resolved threshold groups. gc nil
	// means no profile was applied and GC evaluation falls back to the
	// generic 35-65% window.
	gc      *types.GCThresholds
	special map[string]any
}

// NewEngine builds an engine for one sample's resolved thresholds.
func NewEngine(cfg *types.ThresholdConfig) *Engine {
	e := &Engine{rules: defaultRules()}
	if cfg == nil {
		return e
	}

	gc := cfg.GCContent
	e.gc = &gc
	e.special = cfg.Special

	if len(cfg.Duplication) > 0 {
		e.rules[ruleDuplicationLevel] = Rule{
			Name:           "Sequence Duplication Level",
			Description:    "High duplication may indicate PCR over-amplification or low complexity",
			PassThreshold:  floatKey(cfg.Duplication, "acceptable", 20.0),
			WarnThreshold:  floatKey(cfg.Duplication, "critical", 50.0),
			HigherIsBetter: false,
		}
	}

	if len(cfg.Adapters) > 0 {
		e.rules[ruleAdapterContent] = Rule{
			Name:           "Adapter Content",
			Description:    "Adapter sequences should be minimal or absent",
			PassThreshold:  floatKey(cfg.Adapters, "acceptable", 5.0),
			WarnThreshold:  floatKey(cfg.Adapters, "critical", 15.0),
			HigherIsBetter: false,
		}
	}

	if len(cfg.Quality) > 0 {
		meanMin := floatKey(cfg.Quality, "mean_quality_min", 28.0)
		e.rules[rulePerBaseQualityMean] = Rule{
			Name:           "Per Base Quality (Mean)",
			Description:    "Average quality score across all bases should be high",
			PassThreshold:  meanMin,
			WarnThreshold:  math.Max(20.0, meanMin-8),
			HigherIsBetter: true,
		}
	}

	return e
}

// Rule returns the active rule for key, for callers that surface
// effective thresholds (reports, verbose output).
func (e *Engine) Rule(key string) (Rule, bool) {
	r, ok := e.rules[key]
	return r, ok
}

// floatKey coerces m[key] to float64, returning fallback when the key
// is absent. Profile maps carry YAML-decoded ints and floats.
func floatKey(m map[string]any, key string, fallback float64) float64 {
	if v, ok := m[key]; ok {
		return cast.ToFloat64(v)
	}
	return fallback
}

func boolKey(m map[string]any, key string, fallback bool) bool {
	if v, ok := m[key]; ok {
		return cast.ToBool(v)
	}
	return fallback
}
