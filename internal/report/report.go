// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders parse, analysis, and fix outputs as JSON,
// CSV, or plain-text summaries. The input kind is detected from the
// document's fields, so one command serves all three stages.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/seqqc/pkg/types"
)

// Kind identifies which pipeline stage produced the input document.
type Kind string

const (
	KindParsed   Kind = "parsed"
	KindAnalysis Kind = "analysis"
	KindFixes    Kind = "fixes"
)

// Supported output formats.
const (
	FormatJSON    = "json"
	FormatCSV     = "csv"
	FormatSummary = "summary"
)

// Reporter renders one loaded document. Exactly one of the typed
// fields is set, per Kind.
type Reporter struct {
	// Version is stamped into JSON output metadata.
	Version string

	// Now supplies timestamps; tests override it for stable output.
	Now func() time.Time

	kind       Kind
	parsed     *types.Report
	assessment *types.SampleAssessment
	fixes      *types.FixResult
}

// Load reads a JSON document produced by the parse, analyze, or fix
// stage and detects which one it is.
func Load(path string) (*Reporter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report input: %w", err)
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("decoding report input: %w", err)
	}

	r := &Reporter{Version: "dev", Now: time.Now}
	switch {
	case probe["fixes_applied"] != nil:
		r.kind = KindFixes
		r.fixes = &types.FixResult{}
		err = json.Unmarshal(data, r.fixes)
	case probe["overall_status"] != nil:
		r.kind = KindAnalysis
		r.assessment = &types.SampleAssessment{}
		err = json.Unmarshal(data, r.assessment)
	default:
		r.kind = KindParsed
		r.parsed = &types.Report{TotalDeduplicatedPercentage: 100.0}
		err = json.Unmarshal(data, r.parsed)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s document: %w", r.kind, err)
	}
	return r, nil
}

// Kind returns the detected document kind.
func (r *Reporter) Kind() Kind {
	return r.kind
}

// Write renders the document in the requested format.
func (r *Reporter) Write(w io.Writer, format string) error {
	switch format {
	case FormatJSON:
		return r.WriteJSON(w)
	case FormatCSV:
		return r.WriteCSV(w)
	case FormatSummary:
		return r.WriteSummary(w)
	default:
		return fmt.Errorf("unsupported format: %s (use json, csv, or summary)", format)
	}
}

// WriteJSON wraps the document with generation metadata.
func (r *Reporter) WriteJSON(w io.Writer) error {
	var data any
	switch r.kind {
	case KindParsed:
		data = r.parsed
	case KindAnalysis:
		data = r.assessment
	case KindFixes:
		data = r.fixes
	}

	doc := struct {
		GeneratedAt string `json:"generated_at"`
		ReportType  Kind   `json:"report_type"`
		Version     string `json:"seqqc_version"`
		Data        any    `json:"data"`
	}{
		GeneratedAt: r.Now().Format(time.RFC3339),
		ReportType:  r.kind,
		Version:     r.Version,
		Data:        data,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(doc)
}

// WriteCSV renders the kind-specific tabular form.
func (r *Reporter) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	switch r.kind {
	case KindParsed:
		r.parsedCSV(cw)
	case KindAnalysis:
		r.analysisCSV(cw)
	case KindFixes:
		r.fixesCSV(cw)
	}
	cw.Flush()
	return cw.Error()
}

func (r *Reporter) parsedCSV(w *csv.Writer) {
	w.Write([]string{"Metric", "Value", "Details"})
	w.Write([]string{"Sample Name", r.parsed.SampleName, ""})
	w.Write([]string{})

	if len(r.parsed.PerBaseQuality) > 0 {
		w.Write([]string{"Per-Base Quality Scores", "", ""})
		w.Write([]string{"Base Range", "Mean Quality", "Median Quality"})
		for _, p := range r.parsed.PerBaseQuality {
			w.Write([]string{p.Base, fmt.Sprintf("%.2f", p.Mean), fmt.Sprintf("%.2f", p.Median)})
		}
		w.Write([]string{})
	}

	w.Write([]string{"GC Content (%)", fmt.Sprintf("%.2f", r.parsed.GCContentMean), ""})
	w.Write([]string{})

	if len(r.parsed.DuplicationLevels) > 0 {
		w.Write([]string{"Duplication Levels", "", ""})
		w.Write([]string{"Level", "Percentage"})
		for _, level := range sortedKeys(r.parsed.DuplicationLevels) {
			w.Write([]string{level, fmt.Sprintf("%.2f", r.parsed.DuplicationLevels[level])})
		}
		w.Write([]string{})
	}

	if len(r.parsed.AdapterContent) > 0 {
		w.Write([]string{"Adapter Content", "", ""})
		w.Write([]string{"Position", "Percentage"})
		for _, a := range r.parsed.AdapterContent {
			w.Write([]string{a.Position, fmt.Sprintf("%.2f", a.Value)})
		}
		w.Write([]string{})
	}

	if len(r.parsed.OverrepresentedSequences) > 0 {
		w.Write([]string{"Overrepresented Sequences", "", ""})
		w.Write([]string{"Sequence"})
		for _, seq := range r.parsed.OverrepresentedSequences {
			w.Write([]string{seq})
		}
	}
}

func (r *Reporter) analysisCSV(w *csv.Writer) {
	w.Write([]string{"QC Analysis Report"})
	w.Write([]string{"Generated:", r.Now().Format("2006-01-02 15:04:05")})
	w.Write([]string{})

	w.Write([]string{"Sample Name", r.assessment.SampleName})
	w.Write([]string{"Overall Status", strings.ToUpper(string(r.assessment.OverallStatus))})
	w.Write([]string{"Overall Summary", r.assessment.OverallSummary})
	w.Write([]string{})

	w.Write([]string{"Detailed Metrics"})
	w.Write([]string{"Metric", "Status", "Summary", "Recommendations"})
	for _, name := range metricOrder(r.assessment.Metrics) {
		m := r.assessment.Metrics[name]
		w.Write([]string{
			titleCase(name),
			strings.ToUpper(string(m.Status)),
			m.Summary,
			strings.Join(m.Recommendations, "; "),
		})
	}
	w.Write([]string{})

	if len(r.assessment.AllRecommendations) > 0 {
		w.Write([]string{"Action Items"})
		w.Write([]string{"Priority", "Recommendation"})
		for i, rec := range r.assessment.AllRecommendations {
			w.Write([]string{fmt.Sprintf("%d", i+1), rec})
		}
	}
}

func (r *Reporter) fixesCSV(w *csv.Writer) {
	w.Write([]string{"QC Fix Suggestions Report"})
	w.Write([]string{"Generated:", r.Now().Format("2006-01-02 15:04:05")})
	w.Write([]string{})

	w.Write([]string{"Sample Name", r.fixes.SampleName})
	w.Write([]string{"Input File", r.fixes.InputFile})
	w.Write([]string{})

	w.Write([]string{"Fix Suggestions"})
	w.Write([]string{"Category", "Priority", "Description", "Command", "Reason"})
	for _, fix := range r.fixes.Fixes {
		w.Write([]string{
			titleCase(fix.Category),
			strings.ToUpper(string(fix.Priority)),
			fix.Description,
			fix.Command,
			fix.Reason,
		})
	}
	w.Write([]string{})

	if len(r.fixes.SuggestedPipeline) > 0 {
		w.Write([]string{"Suggested Processing Pipeline"})
		w.Write([]string{"Step", "Command"})
		step := 1
		for _, cmd := range r.fixes.SuggestedPipeline {
			switch {
			case strings.HasPrefix(cmd, "#"):
				w.Write([]string{"", cmd})
			case strings.TrimSpace(cmd) != "":
				w.Write([]string{fmt.Sprintf("%d", step), cmd})
				step++
			}
		}
	}
}

// WriteSummary renders the human-readable plain-text form.
func (r *Reporter) WriteSummary(w io.Writer) error {
	divider := strings.Repeat("=", 70)
	rule := strings.Repeat("-", 70)

	fmt.Fprintf(w, "%s\nSEQQC REPORT SUMMARY\n%s\n\n", divider, divider)
	fmt.Fprintf(w, "Generated: %s\n", r.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Report Type: %s\n", strings.ToUpper(string(r.kind)))
	fmt.Fprintf(w, "Sample: %s\n\n", r.sampleName())

	switch r.kind {
	case KindAnalysis:
		fmt.Fprintf(w, "%s\nOVERALL ASSESSMENT\n%s\n", rule, rule)
		fmt.Fprintf(w, "Status: %s\n", strings.ToUpper(string(r.assessment.OverallStatus)))
		fmt.Fprintf(w, "Summary: %s\n\n", r.assessment.OverallSummary)

		fmt.Fprintf(w, "%s\nMETRIC DETAILS\n%s\n", rule, rule)
		for _, name := range metricOrder(r.assessment.Metrics) {
			m := r.assessment.Metrics[name]
			fmt.Fprintf(w, "\n%s:\n", titleCase(name))
			fmt.Fprintf(w, "  Status: %s\n", strings.ToUpper(string(m.Status)))
			fmt.Fprintf(w, "  Summary: %s\n", m.Summary)
			if len(m.Recommendations) > 0 {
				fmt.Fprintf(w, "  Recommendations:\n")
				for _, rec := range m.Recommendations {
					fmt.Fprintf(w, "    - %s\n", rec)
				}
			}
		}

		if len(r.assessment.AllRecommendations) > 0 {
			fmt.Fprintf(w, "\n%s\nACTION ITEMS\n%s\n", rule, rule)
			for i, rec := range r.assessment.AllRecommendations {
				fmt.Fprintf(w, "%d. %s\n", i+1, rec)
			}
		}

	case KindFixes:
		fmt.Fprintf(w, "%s\nFIX SUGGESTIONS\n%s\n", rule, rule)
		for i, fix := range r.fixes.Fixes {
			fmt.Fprintf(w, "\n%d. %s\n", i+1, fix.Description)
			fmt.Fprintf(w, "   Priority: %s\n", strings.ToUpper(string(fix.Priority)))
			fmt.Fprintf(w, "   Command: %s\n", fix.Command)
			fmt.Fprintf(w, "   Reason: %s\n", fix.Reason)
		}
		if len(r.fixes.SuggestedPipeline) > 0 {
			fmt.Fprintf(w, "\n%s\nSUGGESTED PIPELINE\n%s\n", rule, rule)
			for _, cmd := range r.fixes.SuggestedPipeline {
				fmt.Fprintf(w, "%s\n", cmd)
			}
		}

	case KindParsed:
		fmt.Fprintf(w, "%s\nPARSED METRICS\n%s\n", rule, rule)
		fmt.Fprintf(w, "Total Sequences: %d\n", r.parsed.TotalSequences)
		fmt.Fprintf(w, "Sequence Length: %s\n", r.parsed.SequenceLength)
		fmt.Fprintf(w, "GC Content: %.2f%%\n", r.parsed.GCContentMean)
		fmt.Fprintf(w, "Duplication Rate: %.2f%%\n", r.parsed.DuplicationRate())
		fmt.Fprintf(w, "Adapter Positions Reported: %d\n", len(r.parsed.AdapterContent))
		fmt.Fprintf(w, "Overrepresented Sequences: %d\n", len(r.parsed.OverrepresentedSequences))
	}

	fmt.Fprintf(w, "\n%s\nEND OF REPORT\n%s\n", divider, divider)
	return nil
}

func (r *Reporter) sampleName() string {
	switch r.kind {
	case KindParsed:
		return r.parsed.SampleName
	case KindAnalysis:
		return r.assessment.SampleName
	default:
		return r.fixes.SampleName
	}
}

// metricOrder lists the present metrics in canonical order, then any
// unknown ones alphabetically.
func metricOrder(metrics map[string]types.MetricAssessment) []string {
	var out []string
	known := make(map[string]bool)
	for _, name := range types.MetricOrder {
		known[name] = true
		if _, ok := metrics[name]; ok {
			out = append(out, name)
		}
	}
	var extra []string
	for name := range metrics {
		if !known[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// titleCase renders "per_base_quality" as "Per Base Quality".
func titleCase(s string) string {
	words := strings.Split(s, "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
