package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/seqqc/pkg/types"
)

func writeDoc(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func fixedNow() time.Time {
	return time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
}

func sampleAssessment() *types.SampleAssessment {
	return &types.SampleAssessment{
		SampleName:     "sample1",
		OverallStatus:  types.VerdictWarn,
		OverallSummary: "Sample passed with warnings: 1/5 metrics need attention",
		Metrics: map[string]types.MetricAssessment{
			types.MetricPerBaseQuality: {Status: types.VerdictPass, Summary: "Excellent quality: mean Q=36.0, median Q=36.0"},
			types.MetricAdapterContent: {
				Status:          types.VerdictWarn,
				Summary:         "Adapter content detected: 8.50% at position 50",
				Recommendations: []string{"Trim adapters using tools like Cutadapt or Trimmomatic"},
			},
		},
		AllRecommendations: []string{"Trim adapters using tools like Cutadapt or Trimmomatic"},
	}
}

func TestLoadDetectsKind(t *testing.T) {
	tests := []struct {
		name string
		doc  any
		want Kind
	}{
		{"parsed", &types.Report{SampleName: "s"}, KindParsed},
		{"analysis", sampleAssessment(), KindAnalysis},
		{"fixes", &types.FixResult{SampleName: "s", Fixes: []types.FixSuggestion{}}, KindFixes},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Load(writeDoc(t, tt.doc))
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if r.Kind() != tt.want {
				t.Errorf("kind = %q, want %q", r.Kind(), tt.want)
			}
		})
	}
}

func TestWriteJSONWrapsMetadata(t *testing.T) {
	r, err := Load(writeDoc(t, sampleAssessment()))
	if err != nil {
		t.Fatal(err)
	}
	r.Now = fixedNow
	r.Version = "1.2.3"

	var buf bytes.Buffer
	if err := r.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	var doc struct {
		GeneratedAt string                 `json:"generated_at"`
		ReportType  string                 `json:"report_type"`
		Version     string                 `json:"seqqc_version"`
		Data        types.SampleAssessment `json:"data"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if doc.ReportType != "analysis" || doc.Version != "1.2.3" {
		t.Errorf("metadata = %q/%q", doc.ReportType, doc.Version)
	}
	if doc.GeneratedAt != "2026-08-27T12:00:00Z" {
		t.Errorf("generated_at = %q", doc.GeneratedAt)
	}
	if doc.Data.SampleName != "sample1" {
		t.Errorf("data sample = %q", doc.Data.SampleName)
	}
}

func TestWriteCSVAnalysis(t *testing.T) {
	r, err := Load(writeDoc(t, sampleAssessment()))
	if err != nil {
		t.Fatal(err)
	}
	r.Now = fixedNow

	var buf bytes.Buffer
	if err := r.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"QC Analysis Report",
		"Overall Status,WARN",
		"Per Base Quality,PASS",
		"Adapter Content,WARN",
		"1,Trim adapters using tools like Cutadapt or Trimmomatic",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("csv missing %q\n%s", want, out)
		}
	}

	// Canonical metric order: quality before adapters.
	if strings.Index(out, "Per Base Quality") > strings.Index(out, "Adapter Content,WARN") {
		t.Error("metrics out of canonical order")
	}
}

func TestWriteCSVParsedPreservesPositionOrder(t *testing.T) {
	doc := &types.Report{
		SampleName: "s",
		PerBaseQuality: []types.PositionQuality{
			{Base: "1", Mean: 33.2, Median: 34},
			{Base: "2", Mean: 33.8, Median: 34},
			{Base: "10-14", Mean: 35.1, Median: 36},
		},
		GCContentMean: 47.2,
	}
	r, err := Load(writeDoc(t, doc))
	if err != nil {
		t.Fatal(err)
	}
	r.Now = fixedNow

	var buf bytes.Buffer
	if err := r.WriteCSV(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	i1 := strings.Index(out, "1,33.20")
	i2 := strings.Index(out, "2,33.80")
	i3 := strings.Index(out, "10-14,35.10")
	if i1 < 0 || i2 < 0 || i3 < 0 || !(i1 < i2 && i2 < i3) {
		t.Errorf("positions out of order:\n%s", out)
	}
	if !strings.Contains(out, "GC Content (%),47.20") {
		t.Errorf("csv missing GC row:\n%s", out)
	}
}

func TestWriteCSVFixesNumbersCommandsOnly(t *testing.T) {
	doc := &types.FixResult{
		SampleName: "s",
		InputFile:  "s.fastq.gz",
		Fixes: []types.FixSuggestion{
			{Category: types.FixQualityTrimming, Priority: types.PriorityHigh, Description: "Quality trim using fastp", Command: "fastp -i s.fastq.gz"},
		},
		SuggestedPipeline: []string{
			"# Quality trim using fastp",
			"fastp -i s.fastq.gz",
			"",
			"# Re-run FastQC to verify improvements",
			"fastqc s_trimmed.fastq.gz -o fastqc_output/",
		},
	}
	r, err := Load(writeDoc(t, doc))
	if err != nil {
		t.Fatal(err)
	}
	r.Now = fixedNow

	var buf bytes.Buffer
	if err := r.WriteCSV(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if !strings.Contains(out, "Quality Trimming,HIGH") {
		t.Errorf("csv missing fix row:\n%s", out)
	}
	// Comments carry no step number; commands are numbered 1, 2, ...
	if !strings.Contains(out, "1,fastp -i s.fastq.gz") || !strings.Contains(out, "2,fastqc s_trimmed.fastq.gz -o fastqc_output/") {
		t.Errorf("pipeline steps misnumbered:\n%s", out)
	}
}

func TestWriteSummaryAnalysis(t *testing.T) {
	r, err := Load(writeDoc(t, sampleAssessment()))
	if err != nil {
		t.Fatal(err)
	}
	r.Now = fixedNow

	var buf bytes.Buffer
	if err := r.WriteSummary(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		"SEQQC REPORT SUMMARY",
		"Report Type: ANALYSIS",
		"Sample: sample1",
		"OVERALL ASSESSMENT",
		"Status: WARN",
		"Per Base Quality:",
		"    - Trim adapters using tools like Cutadapt or Trimmomatic",
		"ACTION ITEMS",
		"END OF REPORT",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q", want)
		}
	}
}

func TestWriteUnsupportedFormat(t *testing.T) {
	r, err := Load(writeDoc(t, sampleAssessment()))
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Write(&bytes.Buffer{}, "xml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}
