// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package profile loads organism and experiment-type threshold
// profiles and merges them into the effective configuration the rule
// engine evaluates against. Resolution is a pure function over the
// baseline defaults: shared state is never mutated, so concurrent
// analyses cannot leak thresholds into each other.
package profile

import "github.com/pdiddy/seqqc/pkg/types"

// Defaults returns the baseline threshold configuration, built fresh
// on every call so callers can never alias the maps.
func Defaults() types.ThresholdConfig {
	return types.ThresholdConfig{
		GCContent: types.GCThresholds{
			Mean:      50.0,
			Range:     []float64{35, 65},
			Tolerance: 5.0,
		},
		Quality: map[string]any{
			"q20_threshold":    0.80,
			"q28_threshold":    0.80,
			"q30_threshold":    0.75,
			"mean_quality_min": 28.0,
		},
		Duplication: map[string]any{
			"acceptable":       20.0,
			"warning":          35.0,
			"critical":         50.0,
			"check_duplicates": true,
		},
		Adapters: map[string]any{
			"acceptable": 5.0,
			"warning":    10.0,
			"critical":   15.0,
			"required":   true,
		},
		NContent: map[string]float64{
			"max_per_base": 5,
			"max_total":    1,
		},
		Special:        map[string]any{},
		OrganismName:   "Generic",
		ExperimentName: "Generic",
	}
}

// Resolve merges an optional organism profile and an optional
// experiment profile over the baseline defaults.
//
// Precedence, applied in order:
//   - organism: gc_content and n_content replace the baseline's
//     wholesale; quality, duplication, and adapters merge key-by-key
//     with organism keys winning.
//   - experiment: quality, duplication, and adapters merge key-by-key
//     over the current values (experiment keys win over organism's);
//     special replaces wholesale; gc_content replaces only when the
//     experiment profile declares one.
//
// The result is deterministic for a given input pair and shares no
// storage with the inputs or with Defaults.
func Resolve(org *types.OrganismProfile, exp *types.ExperimentProfile) types.ThresholdConfig {
	cfg := Defaults()

	if org != nil {
		cfg.GCContent = cloneGC(org.GCContent)
		mergeKeys(cfg.Quality, org.Quality)
		mergeKeys(cfg.Duplication, org.Duplication)
		mergeKeys(cfg.Adapters, org.Adapters)
		cfg.NContent = cloneFloats(org.NContent)
		cfg.OrganismName = org.Name
	}

	if exp != nil {
		mergeKeys(cfg.Quality, exp.Quality)
		mergeKeys(cfg.Duplication, exp.Duplication)
		mergeKeys(cfg.Adapters, exp.Adapters)
		cfg.Special = cloneKeys(exp.Special)
		cfg.ExperimentName = exp.Name

		if exp.GCContent != nil {
			cfg.GCContent = cloneGC(*exp.GCContent)
		}
	}

	return cfg
}

// mergeKeys overlays src onto dst, key by key. dst keys absent from
// src survive; conflicting keys take src's value.
func mergeKeys(dst, src map[string]any) {
	for k, v := range src {
		dst[k] = v
	}
}

func cloneKeys(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func cloneFloats(src map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func cloneGC(gc types.GCThresholds) types.GCThresholds {
	out := gc
	out.Range = append([]float64(nil), gc.Range...)
	return out
}
