// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// GCThresholds describes the expected GC-content distribution for an
// organism or experiment type.
type GCThresholds struct {
	// Mean is the expected GC percentage (0-100).
	Mean float64 `json:"mean" yaml:"mean"`

	// Range is the acceptable [low, high] GC percentage window.
	Range []float64 `json:"range" yaml:"range"`

	// Tolerance is the allowed deviation from Mean before a warning.
	Tolerance float64 `json:"tolerance" yaml:"tolerance"`
}

// Low returns the lower bound of Range, or fallback when Range is malformed.
func (g GCThresholds) Low(fallback float64) float64 {
	if len(g.Range) >= 1 {
		return g.Range[0]
	}
	return fallback
}

// High returns the upper bound of Range, or fallback when Range is malformed.
func (g GCThresholds) High(fallback float64) float64 {
	if len(g.Range) >= 2 {
		return g.Range[1]
	}
	return fallback
}

// ToleranceOr returns Tolerance, or fallback when the profile leaves
// it unset.
func (g GCThresholds) ToleranceOr(fallback float64) float64 {
	if g.Tolerance > 0 {
		return g.Tolerance
	}
	return fallback
}

// ThresholdConfig is the effective, fully merged threshold set used to
// evaluate one sample. It is produced by profile.Resolve and never
// mutated afterward; every analysis run gets a fresh value.
//
// Quality, Duplication, Adapters, and Special are key-value groups
// because profiles declare them as open YAML mappings with mixed
// numeric and boolean values (e.g. "acceptable: 20",
// "check_duplicates: true"). Readers coerce entries with spf13/cast.
type ThresholdConfig struct {
	// GCContent holds the expected GC distribution. Organism-controlled
	// unless the experiment profile explicitly overrides it.
	GCContent GCThresholds `json:"gc_content" yaml:"gc_content"`

	// Quality holds quality-score cutoffs (mean_quality_min,
	// q20_threshold, q28_threshold, q30_threshold).
	Quality map[string]any `json:"quality" yaml:"quality"`

	// Duplication holds duplication-rate cutoffs (acceptable, warning,
	// critical, check_duplicates).
	Duplication map[string]any `json:"duplication" yaml:"duplication"`

	// Adapters holds adapter-content cutoffs (acceptable, warning,
	// critical, required).
	Adapters map[string]any `json:"adapters" yaml:"adapters"`

	// NContent holds N-call limits (max_per_base, max_total).
	NContent map[string]float64 `json:"n_content" yaml:"n_content"`

	// Special holds experiment-specific switches such as
	// allow_high_duplication and check_duplicates. Fully replaced by
	// the experiment profile when one is applied.
	Special map[string]any `json:"special" yaml:"special"`

	// OrganismName is the display name of the applied organism profile,
	// or "Generic" when none was applied.
	OrganismName string `json:"organism_name" yaml:"organism_name"`

	// ExperimentName is the display name of the applied experiment
	// profile, or "Generic" when none was applied.
	ExperimentName string `json:"experiment_name" yaml:"experiment_name"`
}

// OrganismProfile is a reference record supplying organism-specific
// expected ranges (GC content above all). Loaded from YAML by the
// profile store.
type OrganismProfile struct {
	// Name is the display name, e.g. "Human (Homo sapiens)".
	Name string `json:"name" yaml:"name"`

	// GCContent fully replaces the baseline GC thresholds when the
	// profile is applied.
	GCContent GCThresholds `json:"gc_content" yaml:"gc_content"`

	// Quality, Duplication, and Adapters are merged key-by-key over the
	// baseline; organism keys win on conflict.
	Quality     map[string]any `json:"quality" yaml:"quality"`
	Duplication map[string]any `json:"duplication" yaml:"duplication"`
	Adapters    map[string]any `json:"adapters" yaml:"adapters"`

	// NContent fully replaces the baseline N-content limits.
	NContent map[string]float64 `json:"n_content" yaml:"n_content"`

	// Overrepresented and ReadLength carry organism notes that are not
	// consulted by the rule engine but surface in profile listings.
	Overrepresented map[string]any `json:"overrepresented,omitempty" yaml:"overrepresented,omitempty"`
	ReadLength      map[string]any `json:"read_length,omitempty" yaml:"read_length,omitempty"`

	Notes    string `json:"notes,omitempty" yaml:"notes,omitempty"`
	Assembly string `json:"assembly,omitempty" yaml:"assembly,omitempty"`
}

// ExperimentProfile is a reference record supplying experiment-type
// adjustments (e.g. RNA-seq duplication tolerance).
type ExperimentProfile struct {
	// Name is the display name, e.g. "RNA Sequencing".
	Name string `json:"name" yaml:"name"`

	// Abbrev is the short lookup key, e.g. "rnaseq".
	Abbrev string `json:"abbrev" yaml:"abbrev"`

	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Quality, Duplication, and Adapters merge key-by-key over the
	// current configuration; experiment keys win over organism keys.
	Quality     map[string]any `json:"quality" yaml:"quality"`
	Duplication map[string]any `json:"duplication" yaml:"duplication"`
	Adapters    map[string]any `json:"adapters" yaml:"adapters"`

	// Special fully replaces the current special switches.
	Special map[string]any `json:"special" yaml:"special"`

	// GCContent, when declared, fully replaces the current GC
	// thresholds; when nil the organism's (or baseline's) value stands.
	GCContent *GCThresholds `json:"gc_content,omitempty" yaml:"gc_content,omitempty"`

	Notes string `json:"notes,omitempty" yaml:"notes,omitempty"`
}
