package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/oncoscope/oncoscope-backend/internal/logger"
	"github.com/oncoscope/oncoscope-backend/internal/refdata"
	"github.com/oncoscope/oncoscope-backend/internal/repos"
	"github.com/oncoscope/oncoscope-backend/internal/types"
)

const (
	// Gene-level mutation rate assumed when no prevalence rows exist for the
	// gene in the indication.
	defaultGeneMutationRate = 0.25
	// Share of gene-mutated patients attributed to the variant when no
	// variant-level frequency is on record.
	variantShareOfGene = 0.3
	// Share of variant-positive patients meeting typical trial eligibility
	// criteria (published 60-70% range).
	eligibleRate = 0.65
	// Treatment penetration for targeted therapies (published 25-35% range).
	onTreatmentRate = 0.30
)

// FunnelStage is one step of the patient funnel. Pct is the fraction applied
// to reach this stage from its input; nil where no observed rate backs it.
type FunnelStage struct {
	Name   string   `json:"name"`
	Count  int      `json:"count"`
	Pct    *float64 `json:"pct,omitempty"`
	Source string   `json:"source"`
}

type PatientFunnel struct {
	Gene             string        `json:"gene"`
	Variant          string        `json:"variant"`
	Indication       string        `json:"indication"`
	Stages           []FunnelStage `json:"stages"`
	RecruitingTrials int           `json:"recruitingTrials"`
	DatasetUsed      *string       `json:"datasetUsed"`
}

type FunnelService interface {
	Estimate(ctx context.Context, gene, variant, indication string) (PatientFunnel, error)
}

type funnelService struct {
	db         *gorm.DB
	tables     *refdata.Tables
	prevalence repos.MutationPrevalenceRepo
	joiner     *trialJoiner
	log        *logger.Logger
}

func NewFunnelService(
	db *gorm.DB,
	tables *refdata.Tables,
	prevalence repos.MutationPrevalenceRepo,
	indications repos.IndicationRepo,
	trials repos.TrialRepo,
	trialBiomarkers repos.TrialBiomarkerRepo,
	trialIndications repos.TrialIndicationRepo,
	baseLog *logger.Logger,
) FunnelService {
	return &funnelService{
		db:         db,
		tables:     tables,
		prevalence: prevalence,
		joiner: &trialJoiner{
			indications:      indications,
			trials:           trials,
			trialBiomarkers:  trialBiomarkers,
			trialIndications: trialIndications,
		},
		log: baseLog.With("service", "FunnelService"),
	}
}

// Estimate sizes the addressable patient population for a variant in an
// indication: annual incidence narrowed by testing rate, gene mutation rate,
// and variant frequency, then by eligibility and treatment penetration.
// Every stage count is floored so downstream stages never exceed upstream
// ones.
func (s *funnelService) Estimate(ctx context.Context, gene, variant, indication string) (PatientFunnel, error) {
	out := PatientFunnel{Gene: gene, Variant: variant, Indication: indication, Stages: []FunnelStage{}}

	incidence := s.tables.AnnualIncidence(indication)
	testingRate := s.tables.TestingRate(indication, gene)

	geneRows, err := s.prevalence.GetByGeneAndIndication(ctx, nil, gene, indication)
	if err != nil {
		return out, err
	}
	geneRate := geneMutationRate(geneRows)

	bestVariantRow := bestByProfiled(geneRows, variant)
	variantFreq := 0.0
	dataset := "estimate"
	if bestVariantRow != nil {
		variantFreq = bestVariantRow.Frequency
		dataset = bestVariantRow.Dataset
		out.DatasetUsed = &bestVariantRow.Dataset
	}

	tested := int(float64(incidence) * testingRate)
	genePositive := int(float64(tested) * geneRate)
	var variantPositive int
	var variantPct *float64
	if variantFreq > 0 {
		variantPositive = int(float64(tested) * variantFreq)
		f := variantFreq
		variantPct = &f
	} else {
		variantPositive = int(float64(genePositive) * variantShareOfGene)
	}
	eligible := int(float64(variantPositive) * eligibleRate)
	onTreatment := int(float64(variantPositive) * onTreatmentRate)

	testingPct := testingRate
	genePct := geneRate
	eligiblePct := eligibleRate
	treatmentPct := onTreatmentRate
	out.Stages = []FunnelStage{
		{Name: fmt.Sprintf("All %s", indication), Count: incidence,
			Source: "SEER/NCI Annual Estimates"},
		{Name: fmt.Sprintf("Tested for %s", gene), Count: tested, Pct: &testingPct,
			Source: "Published testing rate estimates"},
		{Name: fmt.Sprintf("%s Mutated", gene), Count: genePositive, Pct: &genePct,
			Source: fmt.Sprintf("cBioPortal (%s)", dataset)},
		{Name: fmt.Sprintf("%s %s+", gene, variant), Count: variantPositive, Pct: variantPct,
			Source: fmt.Sprintf("cBioPortal (%s)", dataset)},
		{Name: "Eligible for Therapy", Count: eligible, Pct: &eligiblePct,
			Source: "Estimated from trial eligibility criteria"},
		{Name: "On Treatment", Count: onTreatment, Pct: &treatmentPct,
			Source: "Treatment penetration estimate"},
	}

	recruiting, err := s.recruitingTrialCount(ctx, gene, variant, indication)
	if err != nil {
		return out, err
	}
	out.RecruitingTrials = recruiting
	return out, nil
}

// geneMutationRate derives the all-variant mutation rate of a gene from its
// prevalence rows: total mutated samples over the largest profiled cohort.
// No usable rows falls back to defaultGeneMutationRate.
func geneMutationRate(rows []*types.MutationPrevalence) float64 {
	sampleSum := 0
	maxProfiled := 0
	for _, r := range rows {
		sampleSum += r.SampleCount
		if r.TotalProfiled > maxProfiled {
			maxProfiled = r.TotalProfiled
		}
	}
	if maxProfiled == 0 || sampleSum == 0 {
		return defaultGeneMutationRate
	}
	return float64(sampleSum) / float64(maxProfiled)
}

// bestByProfiled picks the variant's prevalence row backed by the largest
// profiled cohort, or nil when the variant has no rows.
func bestByProfiled(rows []*types.MutationPrevalence, variant string) *types.MutationPrevalence {
	var best *types.MutationPrevalence
	for _, r := range rows {
		if r.VariantName != variant {
			continue
		}
		if best == nil || r.TotalProfiled > best.TotalProfiled {
			best = r
		}
	}
	return best
}

func (s *funnelService) recruitingTrialCount(ctx context.Context, gene, variant, indication string) (int, error) {
	trials, err := s.joiner.trialsForVariant(ctx, nil, gene, variant, indication)
	if err != nil {
		return 0, err
	}
	return countRecruiting(trials), nil
}
