// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// AnalysisConfig holds defaults for the analyze stage.
type AnalysisConfig struct {
	// Organism is the default organism profile name.
	Organism string `json:"organism,omitempty" yaml:"organism,omitempty" mapstructure:"organism"`

	// ExperimentType is the default experiment profile name.
	ExperimentType string `json:"experiment_type,omitempty" yaml:"experiment_type,omitempty" mapstructure:"experiment_type"`

	// ExpectedGC overrides the profile's expected GC percentage when > 0.
	ExpectedGC float64 `json:"expected_gc,omitempty" yaml:"expected_gc,omitempty" mapstructure:"expected_gc"`

	// ProfileDir overrides the embedded profile set with an on-disk
	// directory containing organisms/ and experiment_types/.
	ProfileDir string `json:"profile_dir,omitempty" yaml:"profile_dir,omitempty" mapstructure:"profile_dir"`
}

// BatchConfig holds settings for the batch stage.
type BatchConfig struct {
	// OutputDir is the base directory for per-sample outputs.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// Parallel is the number of samples processed concurrently.
	Parallel int `json:"parallel" yaml:"parallel" mapstructure:"parallel"`

	// CheckTools controls whether fix generation probes installed tools.
	CheckTools bool `json:"check_tools" yaml:"check_tools" mapstructure:"check_tools"`
}

// WorkflowConfig holds settings for the pipeline stage.
type WorkflowConfig struct {
	// OutputDir is the directory for pipeline artifacts.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// ExecTimeout bounds each external command (default 10 minutes).
	ExecTimeout time.Duration `json:"exec_timeout" yaml:"exec_timeout" mapstructure:"exec_timeout"`

	// DryRun shows what would run without executing fixes.
	DryRun bool `json:"dry_run" yaml:"dry_run" mapstructure:"dry_run"`
}

// ReportConfig holds settings for the report stage.
type ReportConfig struct {
	// Format selects the rendering: json, csv, or summary.
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups all stage configurations, populated from seqqc.yaml
// and SEQQC_* environment variables via viper.
type Config struct {
	Analysis AnalysisConfig `json:"analysis" yaml:"analysis" mapstructure:"analysis"`
	Batch    BatchConfig    `json:"batch" yaml:"batch" mapstructure:"batch"`
	Workflow WorkflowConfig `json:"workflow" yaml:"workflow" mapstructure:"workflow"`
	Report   ReportConfig   `json:"report" yaml:"report" mapstructure:"report"`
}
