package services

import (
	"context"
	"testing"

	"github.com/oncoscope/oncoscope-backend/internal/refdata"
	"github.com/oncoscope/oncoscope-backend/internal/repos"
	"github.com/oncoscope/oncoscope-backend/internal/types"
)

func newFunnelService(t *testing.T) FunnelService {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger(t)
	return NewFunnelService(
		db,
		refdata.Defaults(),
		repos.NewMutationPrevalenceRepo(db, log),
		repos.NewIndicationRepo(db, log),
		repos.NewTrialRepo(db, log),
		repos.NewTrialBiomarkerRepo(db, log),
		repos.NewTrialIndicationRepo(db, log),
		log,
	)
}

func TestEstimate_KRASG12CInNSCLCWithoutPrevalenceRows(t *testing.T) {
	svc := newFunnelService(t)

	funnel, err := svc.Estimate(context.Background(), "KRAS", "G12C", "NSCLC")
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if len(funnel.Stages) != 6 {
		t.Fatalf("expected 6 stages, got %d", len(funnel.Stages))
	}

	// 228000 incidence x 0.70 testing, then the 0.25 gene and 0.3 variant
	// defaults, 0.65 eligibility, 0.30 penetration, floored at each stage.
	wantCounts := []int{228000, 159600, 39900, 11970, 7780, 3591}
	for i, want := range wantCounts {
		if funnel.Stages[i].Count != want {
			t.Fatalf("stage %d (%s): expected %d, got %d",
				i, funnel.Stages[i].Name, want, funnel.Stages[i].Count)
		}
	}
	if funnel.Stages[3].Pct != nil {
		t.Fatalf("expected nil pct on estimated variant stage, got %v", *funnel.Stages[3].Pct)
	}
	if funnel.DatasetUsed != nil {
		t.Fatalf("expected nil dataset without prevalence rows")
	}
	if funnel.RecruitingTrials != 0 {
		t.Fatalf("expected 0 recruiting trials on empty db, got %d", funnel.RecruitingTrials)
	}
}

func TestEstimate_UsesObservedPrevalence(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	svc := NewFunnelService(
		db,
		refdata.Defaults(),
		repos.NewMutationPrevalenceRepo(db, log),
		repos.NewIndicationRepo(db, log),
		repos.NewTrialRepo(db, log),
		repos.NewTrialBiomarkerRepo(db, log),
		repos.NewTrialIndicationRepo(db, log),
		log,
	)

	mustCreate(t, db, []*types.MutationPrevalence{
		{Gene: "KRAS", VariantName: "G12C", CancerType: "Lung Adenocarcinoma",
			IndicationName: "NSCLC", SampleCount: 1300, TotalProfiled: 10000,
			Frequency: 0.13, Dataset: "GENIE v15"},
		{Gene: "KRAS", VariantName: "G12D", CancerType: "Lung Adenocarcinoma",
			IndicationName: "NSCLC", SampleCount: 500, TotalProfiled: 10000,
			Frequency: 0.05, Dataset: "GENIE v15"},
		// Smaller cohort for the same variant; the larger one must win.
		{Gene: "KRAS", VariantName: "G12C", CancerType: "Lung Adenocarcinoma",
			IndicationName: "NSCLC", SampleCount: 30, TotalProfiled: 200,
			Frequency: 0.15, Dataset: "MSK-IMPACT"},
	})

	funnel, err := svc.Estimate(context.Background(), "KRAS", "G12C", "NSCLC")
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}

	tested := 159600
	// Gene rate: (1300+500+30)/10000 = 0.183.
	genePositive := int(float64(tested) * 0.183)
	variantPositive := int(float64(tested) * 0.13)
	if funnel.Stages[2].Count != genePositive {
		t.Fatalf("gene stage: expected %d, got %d", genePositive, funnel.Stages[2].Count)
	}
	if funnel.Stages[3].Count != variantPositive {
		t.Fatalf("variant stage: expected %d, got %d", variantPositive, funnel.Stages[3].Count)
	}
	if funnel.Stages[3].Pct == nil || *funnel.Stages[3].Pct != 0.13 {
		t.Fatalf("expected observed variant frequency as pct, got %v", funnel.Stages[3].Pct)
	}
	if funnel.DatasetUsed == nil || *funnel.DatasetUsed != "GENIE v15" {
		t.Fatalf("expected dataset from the largest cohort, got %v", funnel.DatasetUsed)
	}
}

func TestEstimate_CountsRecruitingVariantTrials(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	svc := NewFunnelService(
		db,
		refdata.Defaults(),
		repos.NewMutationPrevalenceRepo(db, log),
		repos.NewIndicationRepo(db, log),
		repos.NewTrialRepo(db, log),
		repos.NewTrialBiomarkerRepo(db, log),
		repos.NewTrialIndicationRepo(db, log),
		log,
	)
	ctx := context.Background()

	ind := &types.Indication{Name: "NSCLC", DisplayName: "Non-Small Cell Lung Cancer"}
	mustCreate(t, db, ind)
	trials := []*types.Trial{
		{NCTID: "NCT00000001", BriefTitle: "a", OverallStatus: "Recruiting"},
		{NCTID: "NCT00000002", BriefTitle: "b", OverallStatus: "Completed"},
		{NCTID: "NCT00000003", BriefTitle: "c", OverallStatus: "Recruiting"},
	}
	mustCreate(t, db, trials)
	mustCreate(t, db, []*types.TrialIndication{
		{TrialID: trials[0].ID, IndicationID: ind.ID},
		{TrialID: trials[1].ID, IndicationID: ind.ID},
		{TrialID: trials[2].ID, IndicationID: ind.ID},
	})
	mustCreate(t, db, []*types.TrialBiomarker{
		{TrialID: trials[0].ID, BiomarkerID: 1, BiomarkerName: "KRAS", VariantName: "G12C"},
		// Variant spelled inside the raw cutoff text.
		{TrialID: trials[1].ID, BiomarkerID: 1, BiomarkerName: "KRAS", CutoffValue: "KRAS G12C positive"},
		// Different variant, must not count.
		{TrialID: trials[2].ID, BiomarkerID: 1, BiomarkerName: "KRAS", VariantName: "G12D"},
	})

	funnel, err := svc.Estimate(ctx, "KRAS", "G12C", "NSCLC")
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	// Trial 1 matches and recruits; trial 2 matches by cutoff text but is
	// completed; trial 3 does not match the variant.
	if funnel.RecruitingTrials != 1 {
		t.Fatalf("expected 1 recruiting trial, got %d", funnel.RecruitingTrials)
	}
}

func TestEstimate_MonotonicStages(t *testing.T) {
	svc := newFunnelService(t)

	funnel, err := svc.Estimate(context.Background(), "EGFR", "L858R", "NSCLC")
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	for i := 1; i < len(funnel.Stages); i++ {
		if funnel.Stages[i].Count > funnel.Stages[i-1].Count {
			t.Fatalf("stage %d (%s) exceeds stage %d: %d > %d",
				i, funnel.Stages[i].Name, i-1, funnel.Stages[i].Count, funnel.Stages[i-1].Count)
		}
	}
}

func TestEstimate_UnknownIndicationYieldsZeroFunnel(t *testing.T) {
	svc := newFunnelService(t)

	funnel, err := svc.Estimate(context.Background(), "KRAS", "G12C", "Unknown Cancer")
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	for i, stage := range funnel.Stages {
		if stage.Count != 0 {
			t.Fatalf("stage %d: expected 0, got %d", i, stage.Count)
		}
	}
	// Unknown indication+gene still reports the default testing rate.
	if funnel.Stages[1].Pct == nil || *funnel.Stages[1].Pct != 0.5 {
		t.Fatalf("expected default testing rate 0.5, got %v", funnel.Stages[1].Pct)
	}
}

func TestGeneMutationRate_Defaults(t *testing.T) {
	if got := geneMutationRate(nil); got != defaultGeneMutationRate {
		t.Fatalf("expected default rate, got %v", got)
	}
	rows := []*types.MutationPrevalence{
		{SampleCount: 0, TotalProfiled: 0},
	}
	if got := geneMutationRate(rows); got != defaultGeneMutationRate {
		t.Fatalf("expected default rate on zero cohort, got %v", got)
	}
}
