// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fixer turns a QC assessment into concrete remediation
// commands: quality trimming, adapter removal, and deduplication,
// ordered into a suggested pipeline. Commands are generated for every
// candidate tool unless tool checking narrows them to what is
// installed.
package fixer

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/seqqc/internal/toolcheck"
	"github.com/pdiddy/seqqc/pkg/types"
)

// DefaultInputReads stands in when the caller does not name the
// original reads file.
const DefaultInputReads = "INPUT_READS.fastq.gz"

// pairedEndPattern recognizes common paired-end naming: _R1/_R2, _1/_2
// (with . separators too), and _forward/_reverse.
var pairedEndPattern = regexp.MustCompile(`(?i)[_.]R?[12][_.]|[_.]forward|[_.]reverse`)

// Options configures a Fixer.
type Options struct {
	// InputReads is the reads file generated commands reference;
	// DefaultInputReads when empty.
	InputReads string

	// CheckTools narrows suggestions to installed tools and embeds the
	// availability summary in the result.
	CheckTools bool

	// Checker overrides the PATH-probing checker, for tests. Ignored
	// unless CheckTools is set.
	Checker *toolcheck.Checker
}

// Fixer generates fix suggestions for one sample.
type Fixer struct {
	opts    Options
	checker *toolcheck.Checker

	readLength int // 0 = unknown
	pairedEnd  bool
	quality    int
}

// New builds a Fixer.
func New(opts Options) *Fixer {
	if opts.InputReads == "" {
		opts.InputReads = DefaultInputReads
	}
	f := &Fixer{opts: opts, quality: 20}
	if opts.CheckTools {
		f.checker = opts.Checker
		if f.checker == nil {
			f.checker = toolcheck.NewChecker()
		}
	}
	return f
}

// Generate produces fixes for an assessment. The parsed report is
// optional; when present it refines read length and paired-end
// detection, which tune trimming parameters.
func (f *Fixer) Generate(assessment *types.SampleAssessment, report *types.Report) *types.FixResult {
	f.detectParameters(assessment, report)

	var fixes []types.FixSuggestion
	fixes = append(fixes, f.qualityTrimFixes(assessment)...)
	fixes = append(fixes, f.adapterTrimFixes(assessment)...)
	fixes = append(fixes, f.deduplicationFixes(assessment)...)

	result := &types.FixResult{
		SampleName:        assessment.SampleName,
		InputFile:         f.opts.InputReads,
		Fixes:             fixes,
		SuggestedPipeline: f.buildPipeline(assessment.SampleName, fixes),
		ReadLength:        f.readLength,
		PairedEnd:         f.pairedEnd,
	}
	if f.checker != nil {
		result.ToolAvailability = f.checker.Availability()
	}
	return result
}

// LoadAssessment reads a JSON-serialized assessment, as written by the
// analyze step.
func LoadAssessment(path string) (*types.SampleAssessment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading analysis file: %w", err)
	}
	var a types.SampleAssessment
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decoding analysis file: %w", err)
	}
	return &a, nil
}

// detectParameters derives trimming parameters from the report's basic
// statistics and the assessment's profile, falling back to safe
// defaults: minimum length 36, single-end, Q20.
func (f *Fixer) detectParameters(assessment *types.SampleAssessment, report *types.Report) {
	f.readLength = 0
	f.pairedEnd = false

	filename := f.opts.InputReads
	if report != nil {
		if report.SequenceLength != "" {
			f.readLength = maxLength(report.SequenceLength)
		}
		if report.Filename != "" {
			filename = report.Filename
		}
	}
	f.pairedEnd = pairedEndPattern.MatchString(filename)

	// Viral sequencing needs stricter trimming; metagenomics tolerates
	// lower quality to keep rare community members.
	info := assessment.ProfileInfo
	switch {
	case strings.Contains(info, "COVID") || strings.Contains(info, "SARS-CoV-2"):
		f.quality = 30
	case strings.Contains(strings.ToLower(info), "metagenomics"):
		f.quality = 15
	default:
		f.quality = 20
	}
}

// maxLength parses a FastQC sequence length, either "150" or a
// "35-151" range (take the maximum).
func maxLength(seqLen string) int {
	if i := strings.Index(seqLen, "-"); i >= 0 {
		if n, err := strconv.Atoi(strings.TrimSpace(seqLen[i+1:])); err == nil {
			return n
		}
		return 0
	}
	if n, err := strconv.Atoi(strings.TrimSpace(seqLen)); err == nil {
		return n
	}
	return 0
}

// minLen picks the post-trim minimum read length: half of short reads,
// 36 for standard Illumina lengths, 40% of long reads.
func (f *Fixer) minLen() int {
	switch {
	case f.readLength == 0:
		return 36
	case f.readLength < 75:
		return f.readLength / 2
	case f.readLength <= 150:
		return 36
	default:
		return int(float64(f.readLength) * 0.4)
	}
}

// tools returns the candidate tools for a category: the installed
// subset when tool checking is on, otherwise the defaults. An empty
// installed subset falls back to the defaults so suggestions never
// vanish entirely.
func (f *Fixer) tools(category string, defaults []string) []string {
	if f.checker == nil {
		return defaults
	}
	if installed := f.checker.Alternatives(category); len(installed) > 0 {
		return installed
	}
	return defaults
}

func needsFix(assessment *types.SampleAssessment, metric string) (types.MetricAssessment, bool) {
	m, ok := assessment.Metrics[metric]
	if !ok {
		return m, false
	}
	return m, m.Status == types.VerdictWarn || m.Status == types.VerdictFail
}

func (f *Fixer) mate(r1 string) string {
	r2 := strings.ReplaceAll(r1, "_R1", "_R2")
	return strings.ReplaceAll(r2, "_1.", "_2.")
}

func (f *Fixer) qualityTrimFixes(assessment *types.SampleAssessment) []types.FixSuggestion {
	if _, ok := needsFix(assessment, types.MetricPerBaseQuality); !ok {
		return nil
	}

	sample := assessment.SampleName
	input := f.opts.InputReads
	minLen := f.minLen()
	reason := fmt.Sprintf("Low quality bases detected (threshold Q%d)", f.quality)

	var fixes []types.FixSuggestion
	for _, tool := range f.tools("quality_trim", []string{"fastp", "trimmomatic", "cutadapt"}) {
		switch tool {
		case "fastp":
			var cmd string
			if f.pairedEnd {
				cmd = fmt.Sprintf("fastp -i %s -I %s -o %s_R1_trimmed.fastq.gz -O %s_R2_trimmed.fastq.gz -q %d -l %d",
					input, f.mate(input), sample, sample, f.quality, minLen)
			} else {
				cmd = fmt.Sprintf("fastp -i %s -o %s_trimmed.fastq.gz -q %d -l %d", input, sample, f.quality, minLen)
			}
			fixes = append(fixes, types.FixSuggestion{
				Category:     types.FixQualityTrimming,
				Priority:     types.PriorityHigh,
				Description:  "Quality trim using fastp",
				Command:      cmd,
				Reason:       reason,
				ToolRequired: "fastp",
			})
		case "trimmomatic":
			var cmd string
			if f.pairedEnd {
				cmd = fmt.Sprintf("trimmomatic PE -phred33 %s %s %s_R1_paired.fastq.gz %s_R1_unpaired.fastq.gz %s_R2_paired.fastq.gz %s_R2_unpaired.fastq.gz LEADING:%d TRAILING:%d SLIDINGWINDOW:4:%d MINLEN:%d",
					input, f.mate(input), sample, sample, sample, sample, f.quality, f.quality, f.quality, minLen)
			} else {
				cmd = fmt.Sprintf("trimmomatic SE -phred33 %s %s_trimmed.fastq.gz LEADING:%d TRAILING:%d SLIDINGWINDOW:4:%d MINLEN:%d",
					input, sample, f.quality, f.quality, f.quality, minLen)
			}
			fixes = append(fixes, types.FixSuggestion{
				Category:     types.FixQualityTrimming,
				Priority:     types.PriorityHigh,
				Description:  "Quality trim using Trimmomatic",
				Command:      cmd,
				Reason:       reason,
				ToolRequired: "trimmomatic",
			})
		}
	}
	return fixes
}

func (f *Fixer) adapterTrimFixes(assessment *types.SampleAssessment) []types.FixSuggestion {
	if _, ok := needsFix(assessment, types.MetricAdapterContent); !ok {
		return nil
	}

	sample := assessment.SampleName
	input := f.opts.InputReads
	minLen := f.minLen()
	reason := "Adapter contamination detected in reads"

	var fixes []types.FixSuggestion
	for _, tool := range f.tools("adapter_removal", []string{"cutadapt", "fastp", "trimmomatic"}) {
		switch tool {
		case "cutadapt":
			var cmd string
			if f.pairedEnd {
				cmd = fmt.Sprintf("cutadapt -a AGATCGGAAGAG -A AGATCGGAAGAG -q %d --minimum-length %d -o %s_R1_trimmed.fastq.gz -p %s_R2_trimmed.fastq.gz %s %s",
					f.quality, minLen, sample, sample, input, f.mate(input))
			} else {
				cmd = fmt.Sprintf("cutadapt -a AGATCGGAAGAG -q %d --minimum-length %d -o %s_trimmed.fastq.gz %s",
					f.quality, minLen, sample, input)
			}
			fixes = append(fixes, types.FixSuggestion{
				Category:     types.FixAdapterRemoval,
				Priority:     types.PriorityMedium,
				Description:  "Remove Illumina adapters using Cutadapt",
				Command:      cmd,
				Reason:       reason,
				ToolRequired: "cutadapt",
			})
		case "fastp":
			var cmd string
			if f.pairedEnd {
				cmd = fmt.Sprintf("fastp -i %s -I %s -o %s_R1_trimmed.fastq.gz -O %s_R2_trimmed.fastq.gz --detect_adapter_for_pe -q %d -l %d",
					input, f.mate(input), sample, sample, f.quality, minLen)
			} else {
				cmd = fmt.Sprintf("fastp -i %s -o %s_trimmed.fastq.gz --detect_adapter_for_pe -q %d -l %d",
					input, sample, f.quality, minLen)
			}
			fixes = append(fixes, types.FixSuggestion{
				Category:     types.FixAdapterRemoval,
				Priority:     types.PriorityMedium,
				Description:  "Auto-detect and remove adapters using fastp",
				Command:      cmd,
				Reason:       reason,
				ToolRequired: "fastp",
			})
		case "trimmomatic":
			var cmd string
			if f.pairedEnd {
				cmd = fmt.Sprintf("trimmomatic PE -phred33 %s %s %s_R1_paired.fastq.gz %s_R1_unpaired.fastq.gz %s_R2_paired.fastq.gz %s_R2_unpaired.fastq.gz ILLUMINACLIP:TruSeq3-PE.fa:2:30:10 MINLEN:%d",
					input, f.mate(input), sample, sample, sample, sample, minLen)
			} else {
				cmd = fmt.Sprintf("trimmomatic SE -phred33 %s %s_trimmed.fastq.gz ILLUMINACLIP:TruSeq3-SE.fa:2:30:10 MINLEN:%d",
					input, sample, minLen)
			}
			fixes = append(fixes, types.FixSuggestion{
				Category:     types.FixAdapterRemoval,
				Priority:     types.PriorityMedium,
				Description:  "Remove adapters using Trimmomatic with adapter file",
				Command:      cmd,
				Reason:       reason,
				ToolRequired: "trimmomatic",
			})
		}
	}
	return fixes
}

func (f *Fixer) deduplicationFixes(assessment *types.SampleAssessment) []types.FixSuggestion {
	if _, ok := needsFix(assessment, types.MetricDuplication); !ok {
		return nil
	}

	// RNA-seq duplication is expression signal, not an artifact.
	isRNASeq := strings.Contains(strings.ToLower(assessment.ProfileInfo), "rna") ||
		strings.Contains(strings.ToLower(f.opts.InputReads), "rnaseq")
	if isRNASeq {
		return []types.FixSuggestion{{
			Category:    types.FixDuplicateRemoval,
			Priority:    types.PriorityLow,
			Description: "Note: High duplication is normal for RNA-seq",
			Command:     "# RNA-seq samples naturally have high duplication from highly expressed genes",
			Reason:      "RNA-seq duplication: Do not remove duplicates - they represent biological signal from gene expression",
		}}
	}

	var fixes []types.FixSuggestion
	for _, tool := range f.tools("deduplication", []string{"picard", "samtools"}) {
		if tool != "picard" {
			continue
		}
		fixes = append(fixes, types.FixSuggestion{
			Category:     types.FixDuplicateRemoval,
			Priority:     types.PriorityMedium,
			Description:  "Remove PCR duplicates using Picard",
			Command:      fmt.Sprintf("picard MarkDuplicates I=aligned.bam O=%s_dedup.bam M=metrics.txt REMOVE_DUPLICATES=true", assessment.SampleName),
			Reason:       "High duplication level detected",
			ToolRequired: "picard",
		})
	}
	return fixes
}

// priorityRank and categoryRank order the pipeline: urgent fixes
// first, and within a priority tier, the natural processing order.
func priorityRank(p types.FixPriority) int {
	switch p {
	case types.PriorityHigh:
		return 0
	case types.PriorityMedium:
		return 1
	case types.PriorityLow:
		return 2
	default:
		return 3
	}
}

func categoryRank(c string) int {
	switch c {
	case types.FixQualityTrimming:
		return 0
	case types.FixAdapterRemoval:
		return 1
	case types.FixContaminationScreening:
		return 2
	case types.FixContaminationRemoval:
		return 3
	case types.FixDuplicateRemoval:
		return 4
	default:
		return 5
	}
}

// buildPipeline selects one representative fix per category, in
// priority order, and appends a verification step.
func (f *Fixer) buildPipeline(sampleName string, fixes []types.FixSuggestion) []string {
	sorted := make([]types.FixSuggestion, len(fixes))
	copy(sorted, fixes)
	sort.SliceStable(sorted, func(i, j int) bool {
		pi, pj := priorityRank(sorted[i].Priority), priorityRank(sorted[j].Priority)
		if pi != pj {
			return pi < pj
		}
		return categoryRank(sorted[i].Category) < categoryRank(sorted[j].Category)
	})

	seen := make(map[string]bool)
	var pipeline []string
	for _, fix := range sorted {
		if seen[fix.Category] {
			continue
		}
		seen[fix.Category] = true
		pipeline = append(pipeline, "# "+fix.Description, fix.Command, "")
	}

	pipeline = append(pipeline,
		"# Re-run FastQC to verify improvements",
		fmt.Sprintf("fastqc %s_trimmed.fastq.gz -o fastqc_output/", sampleName))
	return pipeline
}
