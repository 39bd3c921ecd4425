package rules

import (
	"strings"
	"testing"

	"github.com/pdiddy/seqqc/pkg/types"
)

func defaultEngine() *Engine {
	return NewEngine(nil)
}

func configuredEngine(cfg types.ThresholdConfig) *Engine {
	return NewEngine(&cfg)
}

func perBase(means ...float64) []types.PositionQuality {
	out := make([]types.PositionQuality, len(means))
	for i, m := range means {
		out[i] = types.PositionQuality{Mean: m, Median: m + 1}
	}
	return out
}

func TestEvaluatePerBaseQuality(t *testing.T) {
	tests := []struct {
		name       string
		perBase    []types.PositionQuality
		wantStatus types.Verdict
	}{
		{"excellent", perBase(36, 36, 35, 36), types.VerdictPass},
		{"acceptable", perBase(24, 25, 25, 24), types.VerdictWarn},
		{"poor", perBase(15, 14, 16, 15), types.VerdictFail},
		{"missing data", nil, types.VerdictFail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := defaultEngine().EvaluatePerBaseQuality(tt.perBase)
			if got.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q (summary: %s)", got.Status, tt.wantStatus, got.Summary)
			}
		})
	}
}

func TestEvaluatePerBaseQualityTailDrop(t *testing.T) {
	// 20 positions: strong start, collapsing tail. Average stays above
	// the pass threshold, so the drop surfaces as advice only.
	means := make([]float64, 20)
	for i := range means {
		means[i] = 36
	}
	means[18], means[19] = 12, 10

	got := defaultEngine().EvaluatePerBaseQuality(perBase(means...))
	if got.Status != types.VerdictPass {
		t.Fatalf("status = %q, want pass (summary: %s)", got.Status, got.Summary)
	}

	want := "Quality drops at read ends - trim last 5-10 bases"
	found := false
	for _, r := range got.Recommendations {
		if r == want {
			found = true
		}
	}
	if !found {
		t.Errorf("recommendations %v missing %q", got.Recommendations, want)
	}
}

func TestEvaluateGCContentWithProfile(t *testing.T) {
	cfg := types.ThresholdConfig{
		GCContent: types.GCThresholds{Mean: 52.0, Range: []float64{35, 65}, Tolerance: 5.0},
	}
	e := configuredEngine(cfg)

	// In range, deviation 2.3 under tolerance.
	got := e.EvaluateGCContent(49.7, 50.0)
	if got.Status != types.VerdictPass {
		t.Errorf("status = %q, want pass (summary: %s)", got.Status, got.Summary)
	}
	if want := "Normal GC content: 49.7% (expected ~52.0%)"; got.Summary != want {
		t.Errorf("summary = %q, want %q", got.Summary, want)
	}

	// Deviation 8 is within 2x tolerance but outside tolerance.
	got = e.EvaluateGCContent(60.0, 50.0)
	if got.Status != types.VerdictWarn {
		t.Errorf("status = %q, want warn (summary: %s)", got.Status, got.Summary)
	}

	// Deviation 12 exceeds 2x tolerance.
	got = e.EvaluateGCContent(64.0, 50.0)
	if got.Status != types.VerdictFail {
		t.Errorf("status = %q, want fail (summary: %s)", got.Status, got.Summary)
	}
}

func TestEvaluateGCContentDefaultTolerance(t *testing.T) {
	// A profile may declare mean and range without a tolerance; the
	// default of 5 applies so small deviations still pass.
	cfg := types.ThresholdConfig{
		GCContent: types.GCThresholds{Mean: 50.0, Range: []float64{35, 65}},
	}
	e := configuredEngine(cfg)

	got := e.EvaluateGCContent(48.0, 50.0)
	if got.Status != types.VerdictPass {
		t.Errorf("status = %q, want pass (summary: %s)", got.Status, got.Summary)
	}

	// Deviation 8 sits between tolerance and 2x tolerance.
	got = e.EvaluateGCContent(58.0, 50.0)
	if got.Status != types.VerdictWarn {
		t.Errorf("status = %q, want warn (summary: %s)", got.Status, got.Summary)
	}
}

func TestEvaluateGCContentFallback(t *testing.T) {
	e := defaultEngine()

	got := e.EvaluateGCContent(48.0, 50.0)
	if got.Status != types.VerdictPass {
		t.Errorf("status = %q, want pass (summary: %s)", got.Status, got.Summary)
	}

	got = e.EvaluateGCContent(0, 50.0)
	if got.Status != types.VerdictFail {
		t.Errorf("zero GC: status = %q, want fail", got.Status)
	}
	if !strings.HasPrefix(got.Summary, "Invalid GC content") {
		t.Errorf("zero GC: summary = %q", got.Summary)
	}
}

func TestEvaluateDuplication(t *testing.T) {
	tests := []struct {
		name       string
		levels     map[string]float64
		wantStatus types.Verdict
	}{
		{"low", map[string]float64{"1": 90, "2": 7, "3": 3}, types.VerdictPass},
		{"moderate", map[string]float64{"1": 60, "2": 25, ">10": 15}, types.VerdictWarn},
		{"severe", map[string]float64{"1": 30, "2": 30, ">10": 40}, types.VerdictFail},
		{"missing", nil, types.VerdictWarn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := defaultEngine().EvaluateDuplication(tt.levels)
			if got.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q (summary: %s)", got.Status, tt.wantStatus, got.Summary)
			}
		})
	}
}

func TestEvaluateDuplicationHighDupAllowed(t *testing.T) {
	cfg := types.ThresholdConfig{
		Duplication: map[string]any{"acceptable": 40.0, "critical": 85.0},
		Special:     map[string]any{"allow_high_duplication": true},
	}
	e := configuredEngine(cfg)

	// 70% duplicated would fail DNA-seq rules but is fine here.
	got := e.EvaluateDuplication(map[string]float64{"1": 30, "2": 30, ">10": 40})
	if got.Status != types.VerdictPass {
		t.Errorf("status = %q, want pass (summary: %s)", got.Status, got.Summary)
	}

	// Past the critical threshold it still only warns.
	got = e.EvaluateDuplication(map[string]float64{"1": 5, ">10": 95})
	if got.Status != types.VerdictWarn {
		t.Errorf("status = %q, want warn (summary: %s)", got.Status, got.Summary)
	}
}

func TestEvaluateAdapterContent(t *testing.T) {
	adapters := func(vals ...float64) []types.PositionValue {
		out := make([]types.PositionValue, len(vals))
		for i, v := range vals {
			out[i] = types.PositionValue{Position: string(rune('1' + i)), Value: v}
		}
		return out
	}

	tests := []struct {
		name       string
		adapters   []types.PositionValue
		wantStatus types.Verdict
	}{
		{"empty is clean", nil, types.VerdictPass},
		{"minimal", adapters(0.1, 0.5, 2.0), types.VerdictPass},
		{"moderate", adapters(0.5, 4.0, 8.0), types.VerdictWarn},
		{"heavy", adapters(2.0, 15.0, 30.0), types.VerdictFail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := defaultEngine().EvaluateAdapterContent(tt.adapters)
			if got.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q (summary: %s)", got.Status, tt.wantStatus, got.Summary)
			}
		})
	}
}

func TestEvaluateAdapterContentReportsPeakPosition(t *testing.T) {
	got := defaultEngine().EvaluateAdapterContent([]types.PositionValue{
		{Position: "10", Value: 1.0},
		{Position: "50", Value: 8.5},
		{Position: "60", Value: 8.5},
	})
	if got.Status != types.VerdictWarn {
		t.Fatalf("status = %q, want warn", got.Status)
	}
	// Ties keep the earliest position.
	if want := "Adapter content detected: 8.50% at position 50"; got.Summary != want {
		t.Errorf("summary = %q, want %q", got.Summary, want)
	}
}

func TestEvaluateOverrepresented(t *testing.T) {
	seqs := func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = strings.Repeat("ACGT", 10)
		}
		return out
	}

	tests := []struct {
		name       string
		count      int
		wantStatus types.Verdict
	}{
		{"none", 0, types.VerdictPass},
		{"few", 3, types.VerdictPass},
		{"multiple", 8, types.VerdictWarn},
		{"many", 15, types.VerdictFail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := defaultEngine().EvaluateOverrepresented(seqs(tt.count))
			if got.Status != tt.wantStatus {
				t.Errorf("count %d: status = %q, want %q", tt.count, got.Status, tt.wantStatus)
			}
		})
	}
}

func TestThresholdOverrides(t *testing.T) {
	cfg := types.ThresholdConfig{
		Quality:     map[string]any{"mean_quality_min": 32.0},
		Duplication: map[string]any{"acceptable": 10.0, "critical": 30.0},
		Adapters:    map[string]any{"acceptable": 2.0, "critical": 6.0},
	}
	e := configuredEngine(cfg)

	r, ok := e.Rule(rulePerBaseQualityMean)
	if !ok || r.PassThreshold != 32.0 || r.WarnThreshold != 24.0 {
		t.Errorf("quality rule = %+v, want pass 32 warn 24", r)
	}
	r, _ = e.Rule(ruleDuplicationLevel)
	if r.PassThreshold != 10.0 || r.WarnThreshold != 30.0 {
		t.Errorf("duplication rule = %+v, want pass 10 warn 30", r)
	}
	r, _ = e.Rule(ruleAdapterContent)
	if r.PassThreshold != 2.0 || r.WarnThreshold != 6.0 {
		t.Errorf("adapter rule = %+v, want pass 2 warn 6", r)
	}
}

func TestThresholdOverrideWarnFloor(t *testing.T) {
	cfg := types.ThresholdConfig{
		Quality: map[string]any{"mean_quality_min": 25.0},
	}
	e := configuredEngine(cfg)

	// warn = max(20, 25-8) keeps the Q20 floor.
	r, _ := e.Rule(rulePerBaseQualityMean)
	if r.WarnThreshold != 20.0 {
		t.Errorf("warn threshold = %v, want floor of 20", r.WarnThreshold)
	}
}

func TestAggregate(t *testing.T) {
	ev := func(v types.Verdict) Evaluation { return Evaluation{Status: v} }

	tests := []struct {
		name        string
		results     map[string]Evaluation
		wantStatus  types.Verdict
		wantSummary string
	}{
		{
			"all pass",
			map[string]Evaluation{"a": ev(types.VerdictPass), "b": ev(types.VerdictPass), "c": ev(types.VerdictPass)},
			types.VerdictPass,
			"Sample PASSED QC: all 3 metrics passed",
		},
		{
			"one warn",
			map[string]Evaluation{"a": ev(types.VerdictPass), "b": ev(types.VerdictWarn), "c": ev(types.VerdictPass)},
			types.VerdictWarn,
			"Sample passed with warnings: 1/3 metrics need attention",
		},
		{
			"one fail of three",
			map[string]Evaluation{"a": ev(types.VerdictPass), "b": ev(types.VerdictFail), "c": ev(types.VerdictPass)},
			types.VerdictWarn,
			"Sample quality concerns: 1 failed, 0 warned",
		},
		{
			"two fails of three",
			map[string]Evaluation{"a": ev(types.VerdictPass), "b": ev(types.VerdictFail), "c": ev(types.VerdictFail)},
			types.VerdictFail,
			"Sample FAILED QC: 2/3 metrics failed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, summary := Aggregate(tt.results)
			if status != tt.wantStatus {
				t.Errorf("status = %q, want %q", status, tt.wantStatus)
			}
			if summary != tt.wantSummary {
				t.Errorf("summary = %q, want %q", summary, tt.wantSummary)
			}
		})
	}
}
