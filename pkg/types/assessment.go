// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Metric category names, in the fixed order the analyzer evaluates
// them. Report formatting iterates this list so output is reproducible
// regardless of map iteration order.
const (
	MetricPerBaseQuality  = "per_base_quality"
	MetricGCContent       = "gc_content"
	MetricDuplication     = "duplication_levels"
	MetricAdapterContent  = "adapter_content"
	MetricOverrepresented = "overrepresented_sequences"
)

// MetricOrder is the canonical enumeration order for metric categories.
var MetricOrder = []string{
	MetricPerBaseQuality,
	MetricGCContent,
	MetricDuplication,
	MetricAdapterContent,
	MetricOverrepresented,
}

// MetricAssessment is the outcome of evaluating a single QC metric.
type MetricAssessment struct {
	// Status is the metric verdict.
	Status Verdict `json:"status" yaml:"status"`

	// Summary is a one-line human-readable description of the finding.
	Summary string `json:"summary" yaml:"summary"`

	// Recommendations lists follow-up actions, most important first.
	Recommendations []string `json:"recommendations" yaml:"recommendations"`
}

// SampleAssessment is the terminal output of analyzing one sample. The
// engine retains no state once it is returned; the caller owns it.
type SampleAssessment struct {
	// SampleName identifies the assessed sample.
	SampleName string `json:"sample_name" yaml:"sample_name"`

	// OverallStatus is the aggregated sample verdict.
	OverallStatus Verdict `json:"overall_status" yaml:"overall_status"`

	// OverallSummary is the aggregated one-line description.
	OverallSummary string `json:"overall_summary" yaml:"overall_summary"`

	// Metrics maps metric category name to its assessment. Only metrics
	// that were actually evaluated appear here.
	Metrics map[string]MetricAssessment `json:"metrics" yaml:"metrics"`

	// AllRecommendations is the union of every metric's recommendations,
	// deduplicated in first-seen order.
	AllRecommendations []string `json:"all_recommendations" yaml:"all_recommendations"`

	// Organism and ExperimentType echo the caller-requested profile
	// names, when any.
	Organism       string `json:"organism,omitempty" yaml:"organism,omitempty"`
	ExperimentType string `json:"experiment_type,omitempty" yaml:"experiment_type,omitempty"`

	// ProfileInfo is a display string describing the applied profiles,
	// e.g. "Organism: Human (Homo sapiens) | Experiment: RNA Sequencing".
	ProfileInfo string `json:"profile_info,omitempty" yaml:"profile_info,omitempty"`
}

// IssueCount returns the number of metrics that did not pass.
func (s *SampleAssessment) IssueCount() int {
	n := 0
	for _, m := range s.Metrics {
		if m.Status != VerdictPass {
			n++
		}
	}
	return n
}
