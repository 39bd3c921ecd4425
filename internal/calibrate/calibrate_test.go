package calibrate

import (
	"math"
	"strings"
	"testing"

	"github.com/pdiddy/seqqc/pkg/types"
)

func perBase(means ...float64) []types.PositionQuality {
	out := make([]types.PositionQuality, len(means))
	for i, m := range means {
		out[i] = types.PositionQuality{Base: "", Mean: m, Median: m}
	}
	return out
}

func TestMAD(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"simple", []float64{1, 2, 3, 4, 5}, 1.0},
		{"single outlier has zero mad", []float64{10, 10, 10, 10, 100}, 0.0},
		{"identical", []float64{7, 7, 7}, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MAD(tt.values); got != tt.want {
				t.Errorf("MAD(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"odd", []float64{3, 1, 2}, 2},
		{"even", []float64{1, 2, 3, 4}, 2.5},
		{"empty", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Median(tt.values); got != tt.want {
				t.Errorf("Median(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestDetectOutliers(t *testing.T) {
	// Value 5 at index 5 is the only clear outlier.
	values := []float64{30, 31, 32, 30, 31, 5, 30, 31}
	outliers := DetectOutliers(values, 3.0)
	if len(outliers) != 1 || outliers[0] != 5 {
		t.Errorf("DetectOutliers() = %v, want [5]", outliers)
	}
}

func TestDetectOutliersDegenerateCases(t *testing.T) {
	if got := DetectOutliers([]float64{1, 100}, 3.0); len(got) != 0 {
		t.Errorf("fewer than 3 values should have no outliers, got %v", got)
	}
	// MAD of 0 suppresses outlier reporting regardless of spread.
	if got := DetectOutliers([]float64{10, 10, 10, 10, 100}, 3.0); len(got) != 0 {
		t.Errorf("zero MAD should have no outliers, got %v", got)
	}
}

func TestDetectTrendStable(t *testing.T) {
	trend, rate := DetectTrend([]float64{30, 30, 31, 30, 30, 31, 30})
	if trend != TrendStable {
		t.Errorf("trend = %q, want stable", trend)
	}
	if math.Abs(rate) >= 0.1 {
		t.Errorf("rate = %v, want |rate| < 0.1", rate)
	}
}

func TestDetectTrendDegrading(t *testing.T) {
	trend, rate := DetectTrend([]float64{35, 34, 33, 31, 29, 27, 25, 23, 20})
	if trend != TrendDegrading {
		t.Errorf("trend = %q, want degrading", trend)
	}
	if rate >= 0 {
		t.Errorf("rate = %v, want negative", rate)
	}
}

func TestDetectTrendShortSeries(t *testing.T) {
	trend, rate := DetectTrend([]float64{40, 10, 40, 10})
	if trend != TrendStable || rate != 0 {
		t.Errorf("short series: trend = %q rate = %v, want stable/0", trend, rate)
	}
}

func TestCalibrateHighQuality(t *testing.T) {
	means := make([]float64, 100)
	for i := range means {
		means[i] = 37 + 0.01*float64(i%2)
	}
	res := Calibrate(perBase(means...))

	if res.MeanQuality < 35 {
		t.Errorf("mean quality = %v, want >= 35", res.MeanQuality)
	}
	if res.RecommendedThreshold < 35 {
		t.Errorf("recommended threshold = %v, want >= 35", res.RecommendedThreshold)
	}
	if res.Trend != TrendStable {
		t.Errorf("trend = %q, want stable", res.Trend)
	}
	if res.Confidence != ConfidenceHigh && res.Confidence != ConfidenceMedium {
		t.Errorf("confidence = %q, want high or medium", res.Confidence)
	}
}

func TestCalibrateLowQualityAdapts(t *testing.T) {
	means := make([]float64, 100)
	for i := range means {
		means[i] = 22 + 0.01*float64(i%2)
	}
	res := Calibrate(perBase(means...))

	if res.MeanQuality >= 25 {
		t.Errorf("mean quality = %v, want < 25", res.MeanQuality)
	}
	// Low-quality data adapts the threshold downward instead of failing.
	if res.RecommendedThreshold >= 25 {
		t.Errorf("recommended threshold = %v, want < 25", res.RecommendedThreshold)
	}
	if res.RecommendedThreshold < ThresholdMarginal {
		t.Errorf("recommended threshold = %v, must not drop below %v", res.RecommendedThreshold, ThresholdMarginal)
	}
	if res.Trend != TrendStable {
		t.Errorf("trend = %q, want stable", res.Trend)
	}
}

func TestCalibrateEmpty(t *testing.T) {
	res := Calibrate(nil)

	if res.MeanQuality != 0 || res.StdDev != 0 || res.Median != 0 || res.MAD != 0 {
		t.Errorf("empty input should zero all statistics, got %+v", res)
	}
	if res.RecommendedThreshold != ThresholdAcceptable {
		t.Errorf("recommended threshold = %v, want %v", res.RecommendedThreshold, ThresholdAcceptable)
	}
	if res.Confidence != ConfidenceLow {
		t.Errorf("confidence = %q, want low", res.Confidence)
	}
	if res.Trend != TrendUnknown {
		t.Errorf("trend = %q, want unknown", res.Trend)
	}
}

func TestCalibrateDegradingConfidenceLow(t *testing.T) {
	res := Calibrate(perBase(35, 34, 33, 31, 29, 27, 25, 23, 20))
	if res.Trend != TrendDegrading {
		t.Fatalf("trend = %q, want degrading", res.Trend)
	}
	if res.Confidence != ConfidenceLow {
		t.Errorf("confidence = %q, want low for degrading trend", res.Confidence)
	}
}

func TestInterpretMentionsConfidence(t *testing.T) {
	res := Calibrate(perBase(36, 36, 36, 36, 36, 36))
	text := res.Interpret()
	if text == "" {
		t.Fatal("empty interpretation")
	}
	if want := "Confidence: "; !strings.Contains(text, want) {
		t.Errorf("interpretation %q missing %q", text, want)
	}
}
