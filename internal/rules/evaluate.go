// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rules

import (
	"fmt"
	"math"

	"github.com/pdiddy/seqqc/pkg/types"
)

// EvaluatePerBaseQuality assesses the per-position quality series.
// Missing data is a hard failure: a FastQC report without this section
// is unusable. A sustained drop over the final tenth of the read adds
// a trimming recommendation without changing the verdict.
func (e *Engine) EvaluatePerBaseQuality(perBase []types.PositionQuality) Evaluation {
	if len(perBase) == 0 {
		return Evaluation{
			Status:          types.VerdictFail,
			Summary:         "No per-base quality data available",
			Recommendations: []string{"Check if FastQC data is complete"},
		}
	}

	meanRule := e.rules[rulePerBaseQualityMean]
	medianRule := e.rules[rulePerBaseQualityMedian]

	var meanSum, medianSum float64
	for _, p := range perBase {
		meanSum += p.Mean
		medianSum += p.Median
	}
	avgMean := meanSum / float64(len(perBase))
	avgMedian := medianSum / float64(len(perBase))

	qualityDrop := false
	if n := len(perBase); n > 10 {
		tail := perBase[n-max(1, n/10):]
		var tailSum float64
		for _, p := range tail {
			tailSum += p.Mean
		}
		if tailSum/float64(len(tail)) < meanRule.WarnThreshold {
			qualityDrop = true
		}
	}

	var ev Evaluation
	switch {
	case avgMean >= meanRule.PassThreshold && avgMedian >= medianRule.PassThreshold:
		ev.Status = types.VerdictPass
		ev.Summary = fmt.Sprintf("Excellent quality: mean Q=%.1f, median Q=%.1f", avgMean, avgMedian)
	case avgMean >= meanRule.WarnThreshold && avgMedian >= medianRule.WarnThreshold:
		ev.Status = types.VerdictWarn
		ev.Summary = fmt.Sprintf("Acceptable quality: mean Q=%.1f, median Q=%.1f", avgMean, avgMedian)
		ev.Recommendations = append(ev.Recommendations, "Consider quality filtering or trimming low-quality bases")
	default:
		ev.Status = types.VerdictFail
		ev.Summary = fmt.Sprintf("Poor quality: mean Q=%.1f, median Q=%.1f", avgMean, avgMedian)
		ev.Recommendations = append(ev.Recommendations,
			"Quality trimming strongly recommended",
			"Consider discarding this sample or re-sequencing")
	}

	if qualityDrop {
		ev.Recommendations = append(ev.Recommendations, "Quality drops at read ends - trim last 5-10 bases")
	}

	return ev
}

// EvaluateGCContent assesses mean GC percentage against the profile's
// expected distribution, or against the generic 35-65% window when no
// profile was applied. The verdict needs both the range check and the
// deviation-from-mean check to pass.
func (e *Engine) EvaluateGCContent(gcContent, expectedGC float64) Evaluation {
	if gcContent <= 0 || gcContent > 100 {
		return Evaluation{
			Status:          types.VerdictFail,
			Summary:         fmt.Sprintf("Invalid GC content: %v%%", gcContent),
			Recommendations: []string{"Check FastQC data integrity"},
		}
	}

	var lower, upper, tolerance float64
	if e.gc != nil {
		lower = e.gc.Low(35)
		upper = e.gc.High(65)
		if e.gc.Mean != 0 {
			expectedGC = e.gc.Mean
		}
		tolerance = e.gc.ToleranceOr(5)
	} else {
		upper = e.rules[ruleGCContent].PassThreshold
		lower = e.rules[ruleGCContentLower].PassThreshold
		tolerance = 10.0
	}

	deviation := math.Abs(gcContent - expectedGC)

	var ev Evaluation
	switch {
	case lower <= gcContent && gcContent <= upper && deviation < tolerance:
		ev.Status = types.VerdictPass
		ev.Summary = fmt.Sprintf("Normal GC content: %.1f%% (expected ~%.1f%%)", gcContent, expectedGC)
	case deviation < tolerance*2:
		ev.Status = types.VerdictWarn
		ev.Summary = fmt.Sprintf("GC content %.1f%% deviates %.1f%% from expected %.1f%%", gcContent, deviation, expectedGC)
		ev.Recommendations = append(ev.Recommendations, "GC content outside typical range")
		if deviation > tolerance*1.5 {
			ev.Recommendations = append(ev.Recommendations, "May indicate contamination or adapter content")
		}
	default:
		ev.Status = types.VerdictFail
		ev.Summary = fmt.Sprintf("GC content %.1f%% deviates %.1f%% from expected %.1f%%", gcContent, deviation, expectedGC)
		ev.Recommendations = append(ev.Recommendations,
			"Severe GC bias detected",
			"Check for contamination, adapter dimers, or wrong organism")
	}

	return ev
}

// EvaluateDuplication assesses the duplication-level histogram. The
// duplicated fraction is everything outside the "1" (unique) bin.
// Experiment types that expect duplication (RNA-seq, ChIP-seq,
// amplicon) switch to a two-tier evaluation that never fails.
func (e *Engine) EvaluateDuplication(levels map[string]float64) Evaluation {
	if len(levels) == 0 {
		return Evaluation{Status: types.VerdictWarn, Summary: "No duplication data available"}
	}

	rule := e.rules[ruleDuplicationLevel]

	var totalDuplication float64
	for level, pct := range levels {
		if level != "1" {
			totalDuplication += pct
		}
	}

	checkDuplicates := boolKey(e.special, "check_duplicates", true)
	allowHighDup := boolKey(e.special, "allow_high_duplication", false)

	var ev Evaluation
	if allowHighDup || !checkDuplicates {
		if totalDuplication <= rule.WarnThreshold {
			ev.Status = types.VerdictPass
			ev.Summary = fmt.Sprintf("Duplication: %.1f%% (normal for this experiment type)", totalDuplication)
		} else {
			ev.Status = types.VerdictWarn
			ev.Summary = fmt.Sprintf("High duplication: %.1f%% (acceptable for RNA-seq/ChIP-seq)", totalDuplication)
			ev.Recommendations = append(ev.Recommendations,
				"High duplication is normal for RNA-seq (abundant transcripts)",
				"DO NOT remove duplicates for RNA-seq - they are real biological signal")
		}
		return ev
	}

	switch {
	case totalDuplication <= rule.PassThreshold:
		ev.Status = types.VerdictPass
		ev.Summary = fmt.Sprintf("Low duplication: %.1f%%", totalDuplication)
	case totalDuplication <= rule.WarnThreshold:
		ev.Status = types.VerdictWarn
		ev.Summary = fmt.Sprintf("Moderate duplication: %.1f%%", totalDuplication)
		ev.Recommendations = append(ev.Recommendations,
			"Duplication may indicate PCR over-amplification",
			"Consider using duplicate removal tools (e.g., Picard MarkDuplicates)")
	default:
		ev.Status = types.VerdictFail
		ev.Summary = fmt.Sprintf("High duplication: %.1f%%", totalDuplication)
		ev.Recommendations = append(ev.Recommendations,
			"Severe duplication detected",
			"Strong recommendation: remove duplicates before downstream analysis",
			"May indicate low library complexity or PCR issues")
	}

	return ev
}

// EvaluateAdapterContent assesses the adapter series by its peak
// value. An empty series is a clean pass. Ties keep the earliest
// position, matching the order the report lists them in.
func (e *Engine) EvaluateAdapterContent(adapters []types.PositionValue) Evaluation {
	if len(adapters) == 0 {
		return Evaluation{Status: types.VerdictPass, Summary: "No adapter content detected"}
	}

	rule := e.rules[ruleAdapterContent]

	maxAdapter := adapters[0].Value
	maxPos := adapters[0].Position
	for _, a := range adapters[1:] {
		if a.Value > maxAdapter {
			maxAdapter = a.Value
			maxPos = a.Position
		}
	}

	var ev Evaluation
	switch {
	case maxAdapter <= rule.PassThreshold:
		ev.Status = types.VerdictPass
		ev.Summary = fmt.Sprintf("Minimal adapter content: %.2f%%", maxAdapter)
	case maxAdapter <= rule.WarnThreshold:
		ev.Status = types.VerdictWarn
		ev.Summary = fmt.Sprintf("Adapter content detected: %.2f%% at position %s", maxAdapter, maxPos)
		ev.Recommendations = append(ev.Recommendations,
			"Trim adapters using tools like Cutadapt or Trimmomatic",
			fmt.Sprintf("Adapters start appearing at position %s", maxPos))
	default:
		ev.Status = types.VerdictFail
		ev.Summary = fmt.Sprintf("High adapter content: %.2f%% at position %s", maxAdapter, maxPos)
		ev.Recommendations = append(ev.Recommendations,
			"Adapter trimming is essential before analysis",
			"Use Cutadapt or Trimmomatic to remove adapters",
			"High adapter content may reduce mappability")
	}

	return ev
}

// EvaluateOverrepresented assesses the count of overrepresented
// sequences, a contamination indicator.
func (e *Engine) EvaluateOverrepresented(sequences []string) Evaluation {
	rule := e.rules[ruleOverrepresented]
	n := len(sequences)

	var ev Evaluation
	switch {
	case n == 0:
		ev.Status = types.VerdictPass
		ev.Summary = "No overrepresented sequences detected"
	case float64(n) <= rule.PassThreshold:
		ev.Status = types.VerdictPass
		ev.Summary = fmt.Sprintf("Few overrepresented sequences: %d", n)
		ev.Recommendations = append(ev.Recommendations, "Monitor for potential contamination")
	case float64(n) <= rule.WarnThreshold:
		ev.Status = types.VerdictWarn
		ev.Summary = fmt.Sprintf("Multiple overrepresented sequences: %d", n)
		ev.Recommendations = append(ev.Recommendations,
			"Check for contamination or adapter dimers",
			"Run BLAST on overrepresented sequences to identify source")
	default:
		ev.Status = types.VerdictFail
		ev.Summary = fmt.Sprintf("Many overrepresented sequences: %d", n)
		ev.Recommendations = append(ev.Recommendations,
			"Severe contamination likely",
			"BLAST overrepresented sequences to identify contaminants",
			"Consider re-library prep or sample cleanup")
	}

	return ev
}

// Aggregate folds per-metric evaluations into one sample verdict.
// Majority failure fails the sample; any single failure or warning
// only warns, so one bad metric cannot sink an otherwise clean run.
func Aggregate(results map[string]Evaluation) (types.Verdict, string) {
	var fails, warns, total int
	for _, r := range results {
		total++
		switch r.Status {
		case types.VerdictFail:
			fails++
		case types.VerdictWarn:
			warns++
		}
	}

	switch {
	case float64(fails) > float64(total)/2:
		return types.VerdictFail, fmt.Sprintf("Sample FAILED QC: %d/%d metrics failed", fails, total)
	case fails > 0:
		return types.VerdictWarn, fmt.Sprintf("Sample quality concerns: %d failed, %d warned", fails, warns)
	case warns > 0:
		return types.VerdictWarn, fmt.Sprintf("Sample passed with warnings: %d/%d metrics need attention", warns, total)
	default:
		return types.VerdictPass, fmt.Sprintf("Sample PASSED QC: all %d metrics passed", total)
	}
}
