// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fastqc parses FastQC output (fastqc_data.txt inside a
// result directory or zip archive) into the report structure the
// analyzer consumes. Sections are delimited by ">>Name" headers and
// ">>END_MODULE" terminators; unknown sections are skipped.
package fastqc

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdiddy/seqqc/pkg/types"
)

// Parse reads a FastQC output path, either a directory containing
// fastqc_data.txt or a .zip archive holding one, and returns the
// parsed report. The sample name is the path's base name up to the
// first "_fastqc".
func Parse(path string) (*types.Report, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading FastQC output: %w", err)
	}

	report := newReport(path)

	if !info.IsDir() && strings.HasSuffix(path, ".zip") {
		content, err := readFromZip(path)
		if err != nil {
			return nil, err
		}
		parseData(report, content)
		return report, nil
	}

	data, err := os.ReadFile(filepath.Join(path, "fastqc_data.txt"))
	if err != nil {
		return nil, fmt.Errorf("reading fastqc_data.txt: %w", err)
	}
	parseData(report, string(data))
	return report, nil
}

// ParseData parses raw fastqc_data.txt content under the given sample
// name, for callers that already hold the bytes.
func ParseData(sampleName, content string) *types.Report {
	report := &types.Report{
		SampleName:                  sampleName,
		TotalDeduplicatedPercentage: 100.0,
	}
	parseData(report, content)
	return report
}

// SampleName derives the sample name from a FastQC output path:
// the base name truncated at the first "_fastqc".
func SampleName(path string) string {
	base := filepath.Base(path)
	if i := strings.Index(base, "_fastqc"); i >= 0 {
		base = base[:i]
	}
	return base
}

func newReport(path string) *types.Report {
	return &types.Report{
		SampleName:                  SampleName(path),
		TotalDeduplicatedPercentage: 100.0,
	}
}

// readFromZip locates fastqc_data.txt inside the archive; FastQC nests
// it under a per-sample directory.
func readFromZip(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("opening FastQC archive: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if !strings.HasSuffix(f.Name, "fastqc_data.txt") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("opening %s in archive: %w", f.Name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return "", fmt.Errorf("reading %s in archive: %w", f.Name, err)
		}
		return string(data), nil
	}

	return "", fmt.Errorf("fastqc_data.txt missing in %s", path)
}

// Section labels as they appear in fastqc_data.txt headers.
const (
	sectionBasicStats      = "basic_statistics"
	sectionPerBaseQuality  = "per_base_quality"
	sectionPerBaseContent  = "per_base_sequence_content"
	sectionPerSeqQuality   = "per_sequence_quality_scores"
	sectionPerBaseN        = "per_base_n_content"
	sectionLengthDist      = "sequence_length_distribution"
	sectionGCContent       = "gc_content"
	sectionDuplication     = "duplication_levels"
	sectionAdapterContent  = "adapter_content"
	sectionOverrepresented = "overrepresented_sequences"
)

var sectionHeaders = []struct {
	prefix  string
	section string
}{
	{">>Basic Statistics", sectionBasicStats},
	{">>Per base sequence quality", sectionPerBaseQuality},
	{">>Per base sequence content", sectionPerBaseContent},
	{">>Per sequence quality scores", sectionPerSeqQuality},
	{">>Per base N content", sectionPerBaseN},
	{">>Sequence Length Distribution", sectionLengthDist},
	{">>Per sequence GC content", sectionGCContent},
	{">>Sequence Duplication Levels", sectionDuplication},
	{">>Adapter Content", sectionAdapterContent},
	{">>Overrepresented sequences", sectionOverrepresented},
}

func parseData(report *types.Report, content string) {
	section := ""

line:
	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)

		if strings.HasPrefix(line, ">>END_MODULE") {
			section = ""
			continue
		}
		for _, h := range sectionHeaders {
			if strings.HasPrefix(line, h.prefix) {
				section = h.section
				continue line
			}
		}
		if line == "" {
			continue
		}

		switch section {
		case sectionBasicStats:
			if !strings.HasPrefix(line, "#") {
				parseBasicStat(report, line)
			}
		case sectionPerBaseQuality:
			if strings.HasPrefix(line, "#") {
				continue
			}
			if parts := strings.Fields(line); len(parts) >= 3 {
				mean, err1 := strconv.ParseFloat(parts[1], 64)
				median, err2 := strconv.ParseFloat(parts[2], 64)
				if err1 == nil && err2 == nil {
					report.PerBaseQuality = append(report.PerBaseQuality, types.PositionQuality{
						Base:   parts[0],
						Mean:   mean,
						Median: median,
					})
				}
			}
		case sectionPerBaseContent:
			if strings.HasPrefix(line, "#") {
				continue
			}
			if parts := strings.Fields(line); len(parts) >= 5 {
				g, e1 := strconv.ParseFloat(parts[1], 64)
				a, e2 := strconv.ParseFloat(parts[2], 64)
				tt, e3 := strconv.ParseFloat(parts[3], 64)
				c, e4 := strconv.ParseFloat(parts[4], 64)
				if e1 == nil && e2 == nil && e3 == nil && e4 == nil {
					if report.PerBaseSequenceContent == nil {
						report.PerBaseSequenceContent = make(map[string]map[string]float64)
					}
					report.PerBaseSequenceContent[parts[0]] = map[string]float64{
						"G": g, "A": a, "T": tt, "C": c,
					}
				}
			}
		case sectionPerSeqQuality:
			if strings.HasPrefix(line, "#") {
				continue
			}
			if parts := strings.Fields(line); len(parts) >= 2 {
				quality, e1 := strconv.Atoi(parts[0])
				count, e2 := strconv.ParseFloat(parts[1], 64)
				if e1 == nil && e2 == nil {
					if report.PerSequenceQualityScores == nil {
						report.PerSequenceQualityScores = make(map[int]float64)
					}
					report.PerSequenceQualityScores[quality] = count
				}
			}
		case sectionPerBaseN:
			if strings.HasPrefix(line, "#") {
				continue
			}
			if parts := strings.Fields(line); len(parts) >= 2 {
				if n, err := strconv.ParseFloat(parts[1], 64); err == nil {
					if report.PerBaseNContent == nil {
						report.PerBaseNContent = make(map[string]float64)
					}
					report.PerBaseNContent[parts[0]] = n
				}
			}
		case sectionLengthDist:
			if strings.HasPrefix(line, "#") {
				continue
			}
			if parts := strings.Fields(line); len(parts) >= 2 {
				if count, err := strconv.ParseFloat(parts[1], 64); err == nil {
					if report.SequenceLengthDistribution == nil {
						report.SequenceLengthDistribution = make(map[string]float64)
					}
					report.SequenceLengthDistribution[parts[0]] = count
				}
			}
		case sectionGCContent:
			if strings.HasPrefix(line, "#") {
				continue
			}
			if parts := strings.Fields(line); len(parts) >= 2 {
				gcPct, e1 := strconv.Atoi(parts[0])
				count, e2 := strconv.ParseFloat(parts[1], 64)
				if e1 == nil && e2 == nil && count > 0 {
					if report.GCContentDistribution == nil {
						report.GCContentDistribution = make(map[int]float64)
					}
					report.GCContentDistribution[gcPct] = count
				}
			}
		case sectionDuplication:
			parseDuplicationLine(report, line)
		case sectionAdapterContent:
			if strings.HasPrefix(line, "#") {
				continue
			}
			if parts := strings.Fields(line); len(parts) >= 2 {
				if v, err := strconv.ParseFloat(parts[1], 64); err == nil {
					report.AdapterContent = append(report.AdapterContent, types.PositionValue{
						Position: parts[0],
						Value:    v,
					})
				}
			}
		case sectionOverrepresented:
			if strings.HasPrefix(line, "#") {
				continue
			}
			if parts := strings.Fields(line); len(parts) >= 1 {
				report.OverrepresentedSequences = append(report.OverrepresentedSequences, parts[0])
			}
		}
	}

	calculateGCMean(report)
}

func parseBasicStat(report *types.Report, line string) {
	parts := strings.SplitN(line, "\t", 2)
	if len(parts) < 2 {
		return
	}
	measure := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])

	switch measure {
	case "Filename":
		report.Filename = value
	case "File type":
		report.FileType = value
	case "Encoding":
		report.Encoding = value
	case "Total Sequences":
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			report.TotalSequences = n
		}
	case "Total Bases":
		report.TotalBases = value
	case "Sequences flagged as poor quality":
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			report.SequencesFlaggedPoorQuality = n
		}
	case "Sequence length":
		report.SequenceLength = value
	case "%GC":
		if n, err := strconv.Atoi(value); err == nil {
			report.PercentGC = n
		}
	}
}

// parseDuplicationLine handles the one section whose header carries
// data: "#Total Deduplicated Percentage\t<value>".
func parseDuplicationLine(report *types.Report, line string) {
	if strings.HasPrefix(line, "#Total Deduplicated Percentage") {
		parts := strings.Split(line, "\t")
		if len(parts) >= 2 {
			if v, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64); err == nil {
				report.TotalDeduplicatedPercentage = v
			}
		}
		return
	}
	if strings.HasPrefix(line, "#") {
		return
	}
	if parts := strings.Fields(line); len(parts) >= 2 {
		if pct, err := strconv.ParseFloat(parts[1], 64); err == nil {
			if report.DuplicationLevels == nil {
				report.DuplicationLevels = make(map[string]float64)
			}
			report.DuplicationLevels[parts[0]] = pct
		}
	}
}

// calculateGCMean derives the weighted mean GC percentage from the
// parsed distribution.
func calculateGCMean(report *types.Report) {
	if len(report.GCContentDistribution) == 0 {
		return
	}

	var total, weighted float64
	for gcPct, count := range report.GCContentDistribution {
		total += count
		weighted += float64(gcPct) * count
	}
	if total == 0 {
		return
	}
	report.GCContentMean = weighted / total
}
