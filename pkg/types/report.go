// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// PositionQuality is the quality summary for one read position (or
// position range) in a FastQC report.
type PositionQuality struct {
	// Base is the position label as FastQC prints it, e.g. "1" or "10-14".
	Base string `json:"base" yaml:"base"`

	// Mean is the mean Phred quality at this position.
	Mean float64 `json:"mean" yaml:"mean"`

	// Median is the median Phred quality at this position.
	Median float64 `json:"median" yaml:"median"`
}

// PositionValue is a single labelled measurement, used for adapter
// content and other per-position series.
type PositionValue struct {
	// Position is the label as it appears in the report.
	Position string `json:"position" yaml:"position"`

	// Value is the measurement at that label (a percentage for adapters).
	Value float64 `json:"value" yaml:"value"`
}

// Report is a parsed FastQC report for one sample. Per-position series
// are kept as slices in file order: trend detection and tie-breaking
// depend on the enumeration order of the source data, which a Go map
// would not preserve.
type Report struct {
	// SampleName identifies the sample; derived from the FastQC
	// directory or archive name. Required for analysis.
	SampleName string `json:"sample_name" yaml:"sample_name"`

	// Basic Statistics section.
	Filename                    string `json:"filename,omitempty" yaml:"filename,omitempty"`
	FileType                    string `json:"file_type,omitempty" yaml:"file_type,omitempty"`
	Encoding                    string `json:"encoding,omitempty" yaml:"encoding,omitempty"`
	TotalSequences              int64  `json:"total_sequences" yaml:"total_sequences"`
	TotalBases                  string `json:"total_bases,omitempty" yaml:"total_bases,omitempty"`
	SequencesFlaggedPoorQuality int64  `json:"sequences_flagged_poor_quality" yaml:"sequences_flagged_poor_quality"`
	SequenceLength              string `json:"sequence_length,omitempty" yaml:"sequence_length,omitempty"`
	PercentGC                   int    `json:"percent_gc" yaml:"percent_gc"`

	// PerBaseQuality lists position quality summaries in read order.
	PerBaseQuality []PositionQuality `json:"per_base_quality" yaml:"per_base_quality"`

	// PerBaseSequenceContent maps a position label to its G/A/T/C percentages.
	PerBaseSequenceContent map[string]map[string]float64 `json:"per_base_sequence_content,omitempty" yaml:"per_base_sequence_content,omitempty"`

	// PerSequenceQualityScores maps a mean read quality to its read count.
	PerSequenceQualityScores map[int]float64 `json:"per_sequence_quality_scores,omitempty" yaml:"per_sequence_quality_scores,omitempty"`

	// PerBaseNContent maps a position label to its N-call percentage.
	PerBaseNContent map[string]float64 `json:"per_base_n_content,omitempty" yaml:"per_base_n_content,omitempty"`

	// SequenceLengthDistribution maps a length label to its read count.
	SequenceLengthDistribution map[string]float64 `json:"sequence_length_distribution,omitempty" yaml:"sequence_length_distribution,omitempty"`

	// GCContentMean is the weighted mean of GCContentDistribution.
	GCContentMean float64 `json:"gc_content_mean" yaml:"gc_content_mean"`

	// GCContentDistribution maps a GC percentage (0-100) to its read count.
	GCContentDistribution map[int]float64 `json:"gc_content_distribution,omitempty" yaml:"gc_content_distribution,omitempty"`

	// TotalDeduplicatedPercentage is the percentage of the library that
	// would remain after deduplication (100 = fully unique).
	TotalDeduplicatedPercentage float64 `json:"total_deduplicated_percentage" yaml:"total_deduplicated_percentage"`

	// DuplicationLevels maps a copy-count label ("1", "2", ">10", ...)
	// to the percentage of sequences observed at that level.
	DuplicationLevels map[string]float64 `json:"duplication_levels" yaml:"duplication_levels"`

	// AdapterContent lists adapter percentages per position, in file order.
	AdapterContent []PositionValue `json:"adapter_content" yaml:"adapter_content"`

	// OverrepresentedSequences lists the reported sequence strings.
	OverrepresentedSequences []string `json:"overrepresented_sequences" yaml:"overrepresented_sequences"`
}

// DuplicationRate returns the percentage of the library made up of
// duplicated sequences, derived from the deduplicated percentage.
func (r *Report) DuplicationRate() float64 {
	return 100.0 - r.TotalDeduplicatedPercentage
}
