// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fastqc

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// MultiQCSample holds the FastQC metrics MultiQC aggregates per
// sample. Pointer fields distinguish absent metrics from zero values.
type MultiQCSample struct {
	GCContent      *float64 `json:"gc_content,omitempty"`
	Duplication    *float64 `json:"duplication,omitempty"`
	SequenceLength *float64 `json:"sequence_length,omitempty"`
	TotalSequences *float64 `json:"total_sequences,omitempty"`
}

// MultiQCSummary is the extracted view of a multiqc_data.json file.
type MultiQCSummary struct {
	Samples      map[string]MultiQCSample `json:"samples"`
	TotalSamples int                      `json:"total_samples"`
	Version      string                   `json:"multiqc_version"`
}

// multiqcFile mirrors the parts of multiqc_data.json we consume.
type multiqcFile struct {
	ConfigVersion string `json:"config_version"`
	GeneralStats  []map[string]struct {
		PercentGC         *float64 `json:"percent_gc"`
		PercentDuplicates *float64 `json:"percent_duplicates"`
		AvgSequenceLength *float64 `json:"avg_sequence_length"`
		TotalSequences    *float64 `json:"total_sequences"`
	} `json:"report_general_stats_data"`
}

// ParseMultiQC reads a multiqc_data.json file and extracts the
// per-sample FastQC metrics from its general statistics tables.
func ParseMultiQC(path string) (*MultiQCSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading MultiQC data: %w", err)
	}

	var file multiqcFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decoding MultiQC data: %w", err)
	}

	summary := &MultiQCSummary{
		Samples: make(map[string]MultiQCSample),
		Version: file.ConfigVersion,
	}
	if summary.Version == "" {
		summary.Version = "unknown"
	}

	for _, table := range file.GeneralStats {
		for name, metrics := range table {
			sample := summary.Samples[name]
			if metrics.PercentGC != nil {
				sample.GCContent = metrics.PercentGC
			}
			if metrics.PercentDuplicates != nil {
				sample.Duplication = metrics.PercentDuplicates
			}
			if metrics.AvgSequenceLength != nil {
				sample.SequenceLength = metrics.AvgSequenceLength
			}
			if metrics.TotalSequences != nil {
				sample.TotalSequences = metrics.TotalSequences
			}
			summary.Samples[name] = sample
		}
	}

	summary.TotalSamples = len(summary.Samples)
	return summary, nil
}

// MultiQCStats aggregates a parsed MultiQC summary across samples.
type MultiQCStats struct {
	TotalSamples int      `json:"total_samples"`
	GCMean       float64  `json:"gc_mean"`
	GCMin        float64  `json:"gc_min"`
	GCMax        float64  `json:"gc_max"`
	DupMean      float64  `json:"duplication_mean"`
	HighDup      int      `json:"samples_high_duplication"`
	SampleNames  []string `json:"sample_names"`
}

// Stats computes aggregate statistics. Samples missing a metric are
// excluded from that metric's aggregate; duplication above 50% counts
// as high.
func (s *MultiQCSummary) Stats() MultiQCStats {
	stats := MultiQCStats{TotalSamples: len(s.Samples)}

	var gcSum, dupSum float64
	var gcN, dupN int
	for name, sample := range s.Samples {
		stats.SampleNames = append(stats.SampleNames, name)
		if sample.GCContent != nil {
			gc := *sample.GCContent
			gcSum += gc
			if gcN == 0 || gc < stats.GCMin {
				stats.GCMin = gc
			}
			if gcN == 0 || gc > stats.GCMax {
				stats.GCMax = gc
			}
			gcN++
		}
		if sample.Duplication != nil {
			dupSum += *sample.Duplication
			dupN++
			if *sample.Duplication > 50 {
				stats.HighDup++
			}
		}
	}

	if gcN > 0 {
		stats.GCMean = gcSum / float64(gcN)
	}
	if dupN > 0 {
		stats.DupMean = dupSum / float64(dupN)
	}
	sort.Strings(stats.SampleNames)
	return stats
}
