package services

import (
	"testing"

	"github.com/oncoscope/oncoscope-backend/internal/types"
)

func floatPtr(v float64) *float64 { return &v }

func TestCombineAssociations_MultiGeneBiomarker(t *testing.T) {
	// NTRK: one row per sub-gene, scores 0.1 / 0.4 / 0.2.
	rows := []*types.TargetAssociation{
		{BiomarkerSymbol: "NTRK", EnsemblID: "ENSG00000198400", OverallScore: 0.1,
			DrugScore: 0.05, UniqueDrugs: 2, ApprovedDrugCount: 1, SMTractable: true},
		{BiomarkerSymbol: "NTRK", EnsemblID: "ENSG00000148053", OverallScore: 0.4,
			DrugScore: 0.30, UniqueDrugs: 3, ApprovedDrugCount: 0, ABTractable: true},
		{BiomarkerSymbol: "NTRK", EnsemblID: "ENSG00000140538", OverallScore: 0.2,
			DrugScore: 0.10, UniqueDrugs: 1, ApprovedDrugCount: 1, SMHasApprovedDrug: true},
	}

	combined := CombineAssociations(rows)
	if combined.OverallScore != 0.4 {
		t.Fatalf("expected max overall score 0.4, got %v", combined.OverallScore)
	}
	if combined.DrugScore != 0.30 {
		t.Fatalf("expected max drug score 0.30, got %v", combined.DrugScore)
	}
	if combined.UniqueDrugs != 6 {
		t.Fatalf("expected summed drug count 6, got %d", combined.UniqueDrugs)
	}
	if combined.ApprovedDrugCount != 2 {
		t.Fatalf("expected summed approved count 2, got %d", combined.ApprovedDrugCount)
	}
	if !combined.SMTractable || !combined.ABTractable || !combined.SMHasApprovedDrug {
		t.Fatalf("expected OR over flags, got %+v", combined)
	}
	if combined.PROTACTractable {
		t.Fatalf("expected PROTAC flag to stay false")
	}
	if len(combined.Genes) != 3 {
		t.Fatalf("expected 3 per-gene entries, got %d", len(combined.Genes))
	}
}

func TestCombineAssociations_EmptyInputYieldsZeroRecord(t *testing.T) {
	combined := CombineAssociations(nil)
	if combined.OverallScore != 0 || combined.UniqueDrugs != 0 {
		t.Fatalf("expected zero record, got %+v", combined)
	}
	if combined.SMTractable || combined.ABTractable {
		t.Fatalf("expected false flags, got %+v", combined)
	}
	if combined.Genes == nil || len(combined.Genes) != 0 {
		t.Fatalf("expected empty gene list, got %v", combined.Genes)
	}
}

func TestDedupDrugs_KeepsHighestPhasePerName(t *testing.T) {
	rows := []*types.KnownDrug{
		{DrugName: "Sotorasib", MaxPhase: floatPtr(2), DiseaseName: "lung adenocarcinoma"},
		{DrugName: "Sotorasib", MaxPhase: floatPtr(4), IsApproved: true, DiseaseName: "NSCLC"},
		{DrugName: "Sotorasib", MaxPhase: nil, DiseaseName: "solid tumor"},
		{DrugName: "Adagrasib", MaxPhase: floatPtr(3)},
	}

	out := DedupDrugs(rows)
	if len(out) != 2 {
		t.Fatalf("expected 2 drugs, got %d", len(out))
	}
	if out[0].DrugName != "Sotorasib" || !out[0].IsApproved {
		t.Fatalf("expected approved Sotorasib first, got %+v", out[0])
	}
	if out[0].MaxPhase == nil || *out[0].MaxPhase != 4 {
		t.Fatalf("expected highest-phase row kept, got %+v", out[0])
	}
	if out[0].DiseaseName != "NSCLC" {
		t.Fatalf("expected fields from the kept row, got %q", out[0].DiseaseName)
	}
}

func TestDedupDrugs_NullPhaseSortsLowest(t *testing.T) {
	rows := []*types.KnownDrug{
		{DrugName: "DrugA", MaxPhase: nil},
		{DrugName: "DrugA", MaxPhase: floatPtr(1)},
	}
	out := DedupDrugs(rows)
	if len(out) != 1 || out[0].MaxPhase == nil || *out[0].MaxPhase != 1 {
		t.Fatalf("expected phase-1 row to beat null phase, got %+v", out)
	}
}

func TestDedupDrugs_CaseSensitiveNames(t *testing.T) {
	rows := []*types.KnownDrug{
		{DrugName: "IMATINIB", MaxPhase: floatPtr(4)},
		{DrugName: "Imatinib", MaxPhase: floatPtr(4)},
	}
	if out := DedupDrugs(rows); len(out) != 2 {
		t.Fatalf("expected distinct casings to stay separate, got %d rows", len(out))
	}
}

func TestDedupDrugs_Ordering(t *testing.T) {
	rows := []*types.KnownDrug{
		{DrugName: "Zeta", MaxPhase: floatPtr(3)},
		{DrugName: "Alpha", MaxPhase: floatPtr(3)},
		{DrugName: "Mid", MaxPhase: floatPtr(2), IsApproved: true},
		{DrugName: "Top", MaxPhase: floatPtr(4), IsApproved: true},
	}
	out := DedupDrugs(rows)
	wantOrder := []string{"Top", "Mid", "Alpha", "Zeta"}
	for i, want := range wantOrder {
		if out[i].DrugName != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, out[i].DrugName)
		}
	}
}

func TestDedupDrugs_EmptyInput(t *testing.T) {
	out := DedupDrugs(nil)
	if out == nil || len(out) != 0 {
		t.Fatalf("expected empty slice, got %v", out)
	}
}
