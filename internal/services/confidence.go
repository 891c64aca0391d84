package services

import (
	"sort"

	"github.com/oncoscope/oncoscope-backend/internal/types"
)

// Confidence is the closed form of the free-text evidence confidence label.
// Storage keeps the raw string; the ordering below is imposed only at read
// time. Lower ordinal means stronger evidence.
type Confidence int

const (
	ConfidenceFDAGuidelines Confidence = iota + 1
	ConfidenceNCCNGuidelines
	ConfidenceNCCNCAPGuidelines
	ConfidenceELNGuidelines
	ConfidenceLateTrials
	ConfidenceEarlyTrials
	ConfidenceClinicalTrials
	ConfidenceCaseReport
	ConfidencePreClinical
	// ConfidenceUnrecognized covers any label outside the controlled
	// vocabulary; it always sorts after every recognized level.
	ConfidenceUnrecognized
)

var confidenceByLabel = map[string]Confidence{
	"FDA guidelines":                  ConfidenceFDAGuidelines,
	"NCCN guidelines":                 ConfidenceNCCNGuidelines,
	"NCCN/CAP guidelines":             ConfidenceNCCNCAPGuidelines,
	"European LeukemiaNet guidelines": ConfidenceELNGuidelines,
	"Late trials":                     ConfidenceLateTrials,
	"Early trials":                    ConfidenceEarlyTrials,
	"Clinical trials":                 ConfidenceClinicalTrials,
	"Case report":                     ConfidenceCaseReport,
	"Pre-clinical":                    ConfidencePreClinical,
}

// ParseConfidence maps a stored label onto the closed type. Unknown labels
// become ConfidenceUnrecognized, never an error.
func ParseConfidence(label string) Confidence {
	if c, ok := confidenceByLabel[label]; ok {
		return c
	}
	return ConfidenceUnrecognized
}

// RankEvidence orders evidence rows strongest-first by the fixed confidence
// ordinal. The sort is stable, so rows within one level keep their incoming
// order.
func RankEvidence(rows []*types.BiomarkerEvidence) []*types.BiomarkerEvidence {
	ranked := make([]*types.BiomarkerEvidence, len(rows))
	copy(ranked, rows)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ParseConfidence(ranked[i].Confidence) < ParseConfidence(ranked[j].Confidence)
	})
	return ranked
}
