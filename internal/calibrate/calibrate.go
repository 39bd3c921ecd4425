// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package calibrate adapts quality-score thresholds to the empirical
// distribution of a sample's per-position quality data instead of
// applying one universal cutoff. It computes outlier-resistant
// statistics (median, MAD), detects a quality trend along the read,
// and recommends a threshold with a confidence label.
package calibrate

import (
	"math"
	"sort"

	"github.com/pdiddy/seqqc/pkg/types"
)

// Baseline thresholds the recommendation ladder selects from.
const (
	ThresholdExcellent  = 35.0
	ThresholdGood       = 30.0
	ThresholdAcceptable = 25.0
	ThresholdMarginal   = 20.0
)

// outlierFactor is the MAD multiplier for outlier detection, the
// robust analogue of the 3-sigma rule.
const outlierFactor = 3.0

// Confidence labels the reliability of a calibration.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Trend classifies how quality changes along the read.
type Trend string

const (
	TrendStable    Trend = "stable"
	TrendImproving Trend = "improving"
	TrendDegrading Trend = "degrading"
	TrendUnknown   Trend = "unknown"
)

// Result holds the outcome of one calibration run. It is consumed
// immediately by the analyzer and not persisted.
type Result struct {
	MeanQuality          float64    `json:"mean_quality"`
	StdDev               float64    `json:"std_dev"`
	Median               float64    `json:"median"`
	MAD                  float64    `json:"mad"`
	RecommendedThreshold float64    `json:"recommended_threshold"`
	Confidence           Confidence `json:"confidence_level"`
	OutlierPositions     []int      `json:"outlier_positions"`
	Trend                Trend      `json:"trend"`
	TrendRate            float64    `json:"trend_rate"`
}

// Calibrate runs the full calibration over a per-position quality
// series. The slice order defines the sequence used for trend
// detection. An empty input yields the defined default: zero
// statistics, the acceptable baseline threshold, low confidence, and
// an unknown trend.
func Calibrate(perBase []types.PositionQuality) Result {
	if len(perBase) == 0 {
		return defaultResult()
	}

	values := make([]float64, len(perBase))
	for i, p := range perBase {
		values[i] = p.Mean
	}

	mean := Mean(values)
	std := StdDev(values)
	median := Median(values)
	mad := MAD(values)
	outliers := DetectOutliers(values, outlierFactor)
	trend, rate := DetectTrend(values)

	// Recommendation ladder: high-quality data gets strict thresholds;
	// low-quality data gets adapted expectations rather than failing
	// everything outright.
	var recommended float64
	switch {
	case mean >= ThresholdExcellent:
		recommended = ThresholdExcellent
	case mean >= ThresholdGood:
		recommended = ThresholdGood
	case mean >= ThresholdAcceptable:
		recommended = ThresholdAcceptable
	default:
		recommended = math.Max(ThresholdMarginal, mean-std)
	}

	return Result{
		MeanQuality:          mean,
		StdDev:               std,
		Median:               median,
		MAD:                  mad,
		RecommendedThreshold: recommended,
		Confidence:           estimateConfidence(std, len(outliers), len(values), trend),
		OutlierPositions:     outliers,
		Trend:                trend,
		TrendRate:            rate,
	}
}

func defaultResult() Result {
	return Result{
		RecommendedThreshold: ThresholdAcceptable,
		Confidence:           ConfidenceLow,
		OutlierPositions:     []int{},
		Trend:                TrendUnknown,
	}
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the sample standard deviation, or 0 when fewer than
// two values are present.
func StdDev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	mean := Mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(n-1))
}

// Median returns the middle value (mean of the two middle values for
// an even count), or 0 for an empty slice.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// MAD returns the Median Absolute Deviation: the median of
// |x_i - median(x)|. More robust than standard deviation in the
// presence of extreme positions.
func MAD(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	median := Median(values)
	deviations := make([]float64, len(values))
	for i, v := range values {
		deviations[i] = math.Abs(v - median)
	}
	return Median(deviations)
}

// DetectOutliers returns the zero-based indices whose values deviate
// from the median by more than factor x MAD. Fewer than three values,
// or a MAD of exactly zero (no dispersion), yields no outliers.
func DetectOutliers(values []float64, factor float64) []int {
	if len(values) < 3 {
		return []int{}
	}
	median := Median(values)
	mad := MAD(values)
	if mad == 0 {
		return []int{}
	}

	outliers := []int{}
	for i, v := range values {
		if math.Abs(v-median) > factor*mad {
			outliers = append(outliers, i)
		}
	}
	return outliers
}

// DetectTrend fits an ordinary least-squares slope of value against
// zero-based index and classifies it. Fewer than five values, or a
// degenerate index variance, is reported as stable with rate 0.
// Slopes inside (-0.05, 0.05) are stable; negative slopes degrade.
func DetectTrend(values []float64) (Trend, float64) {
	n := len(values)
	if n < 5 {
		return TrendStable, 0
	}

	xMean := float64(n-1) / 2
	yMean := Mean(values)

	var numerator, denominator float64
	for i, v := range values {
		dx := float64(i) - xMean
		numerator += dx * (v - yMean)
		denominator += dx * dx
	}
	if denominator == 0 {
		return TrendStable, 0
	}

	slope := numerator / denominator
	switch {
	case math.Abs(slope) < 0.05:
		return TrendStable, slope
	case slope < 0:
		return TrendDegrading, slope
	default:
		return TrendImproving, slope
	}
}

// estimateConfidence labels the calibration. The checks run in
// priority order: the high criteria first, then the low criteria,
// otherwise medium. The conditions overlap and the order resolves
// those overlaps, so it must not be rearranged.
func estimateConfidence(std float64, numOutliers, total int, trend Trend) Confidence {
	outlierRatio := 0.0
	if total > 0 {
		outlierRatio = float64(numOutliers) / float64(total)
	}

	if std < 3.0 && outlierRatio < 0.1 && trend == TrendStable {
		return ConfidenceHigh
	}
	if std > 8.0 || outlierRatio > 0.3 || trend == TrendDegrading {
		return ConfidenceLow
	}
	return ConfidenceMedium
}
