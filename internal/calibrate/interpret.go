// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package calibrate

import (
	"fmt"
	"math"
	"strings"
)

// Interpret renders a calibration as a short human-readable sentence
// sequence for reports and verbose output.
func (r Result) Interpret() string {
	var parts []string

	switch {
	case r.MeanQuality >= ThresholdExcellent:
		parts = append(parts, fmt.Sprintf("High quality data (mean Q=%.1f)", r.MeanQuality))
	case r.MeanQuality >= ThresholdGood:
		parts = append(parts, fmt.Sprintf("Good quality data (mean Q=%.1f)", r.MeanQuality))
	case r.MeanQuality >= ThresholdAcceptable:
		parts = append(parts, fmt.Sprintf("Acceptable quality data (mean Q=%.1f)", r.MeanQuality))
	default:
		parts = append(parts, fmt.Sprintf("Low quality data (mean Q=%.1f)", r.MeanQuality))
	}

	switch {
	case r.StdDev < 3.0:
		parts = append(parts, "Very consistent quality across positions")
	case r.StdDev < 6.0:
		parts = append(parts, "Moderate variation in quality")
	default:
		parts = append(parts, fmt.Sprintf("High variation in quality (std=%.1f)", r.StdDev))
	}

	switch r.Trend {
	case TrendDegrading:
		parts = append(parts, fmt.Sprintf("Quality degrades along read (rate=%.3f/position)", math.Abs(r.TrendRate)))
	case TrendImproving:
		parts = append(parts, "Quality improves along read (unusual)")
	default:
		parts = append(parts, "Stable quality across read length")
	}

	if len(r.OutlierPositions) > 0 {
		parts = append(parts, fmt.Sprintf("%d outlier positions detected", len(r.OutlierPositions)))
	}

	parts = append(parts, fmt.Sprintf("Confidence: %s", r.Confidence))

	return strings.Join(parts, ". ") + "."
}
