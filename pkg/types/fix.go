// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// FixPriority orders fix suggestions: high before medium before low.
type FixPriority string

const (
	PriorityHigh   FixPriority = "high"
	PriorityMedium FixPriority = "medium"
	PriorityLow    FixPriority = "low"
)

// Fix categories, in pipeline execution order.
const (
	FixQualityTrimming        = "quality_trimming"
	FixAdapterRemoval         = "adapter_removal"
	FixContaminationScreening = "contamination_screening"
	FixContaminationRemoval   = "contamination_removal"
	FixDuplicateRemoval       = "duplicate_removal"
)

// FixSuggestion is one concrete remediation for a failed or warned
// metric, with a ready-to-run command line.
type FixSuggestion struct {
	// Category groups suggestions addressing the same problem.
	Category string `json:"category" yaml:"category"`

	// Priority orders execution: high-priority fixes run first.
	Priority FixPriority `json:"priority" yaml:"priority"`

	// Description is a one-line human-readable label.
	Description string `json:"description" yaml:"description"`

	// Command is the shell-quoted command line implementing the fix.
	Command string `json:"command" yaml:"command"`

	// Reason explains which QC finding triggered the suggestion.
	Reason string `json:"reason" yaml:"reason"`

	// ToolRequired names the external tool the command depends on, if any.
	ToolRequired string `json:"tool_required,omitempty" yaml:"tool_required,omitempty"`
}

// FixResult is the fixer's output for one sample.
type FixResult struct {
	// SampleName identifies the sample the fixes apply to.
	SampleName string `json:"sample_name" yaml:"sample_name"`

	// InputFile is the reads file the generated commands reference.
	InputFile string `json:"input_file" yaml:"input_file"`

	// Fixes lists the generated suggestions, highest priority first.
	Fixes []FixSuggestion `json:"fixes_applied" yaml:"fixes_applied"`

	// SuggestedPipeline is a command script: one representative fix per
	// category, ending with a FastQC re-check.
	SuggestedPipeline []string `json:"suggested_pipeline" yaml:"suggested_pipeline"`

	// ToolAvailability summarizes probed external tools, when the fixer
	// was asked to check them.
	ToolAvailability *ToolAvailability `json:"tool_availability,omitempty" yaml:"tool_availability,omitempty"`

	// ReadLength is the detected (maximum) read length, when known.
	ReadLength int `json:"read_length,omitempty" yaml:"read_length,omitempty"`

	// PairedEnd reports whether the input looks like paired-end data.
	PairedEnd bool `json:"is_paired_end" yaml:"is_paired_end"`
}

// ToolAvailability summarizes which external tools were found on PATH.
type ToolAvailability struct {
	Installed []string `json:"installed" yaml:"installed"`
	Missing   []string `json:"missing" yaml:"missing"`
}
