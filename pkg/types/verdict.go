// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the seqqc pipeline:
// parsed FastQC reports, threshold profiles, assessment results, and
// fix suggestions exchanged between the stage packages.
package types

// Verdict is the three-valued QC status assigned to a metric or a sample.
// Verdicts are totally ordered: Fail < Warn < Pass.
type Verdict string

const (
	VerdictPass Verdict = "pass"
	VerdictWarn Verdict = "warn"
	VerdictFail Verdict = "fail"
)

// Rank returns the verdict's position in the total order: Fail=0,
// Warn=1, Pass=2. Unknown strings rank below Fail so that a corrupt
// status never reads as an improvement.
func (v Verdict) Rank() int {
	switch v {
	case VerdictFail:
		return 0
	case VerdictWarn:
		return 1
	case VerdictPass:
		return 2
	}
	return -1
}

// WorseThan reports whether v ranks strictly below other.
func (v Verdict) WorseThan(other Verdict) bool {
	return v.Rank() < other.Rank()
}

// String returns the wire form ("pass", "warn", "fail").
func (v Verdict) String() string {
	return string(v)
}
