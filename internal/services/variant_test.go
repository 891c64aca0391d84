package services

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/oncoscope/oncoscope-backend/internal/repos"
	"github.com/oncoscope/oncoscope-backend/internal/types"
)

func newVariantService(t *testing.T, db *gorm.DB) VariantService {
	t.Helper()
	log := newTestLogger(t)
	return NewVariantService(
		db,
		repos.NewMutationPrevalenceRepo(db, log),
		repos.NewVariantActionabilityRepo(db, log),
		repos.NewFDAApprovalRepo(db, log),
		repos.NewCivicEvidenceRepo(db, log),
		repos.NewDataProvenanceRepo(db, log),
		repos.NewIndicationRepo(db, log),
		repos.NewTrialRepo(db, log),
		repos.NewTrialBiomarkerRepo(db, log),
		repos.NewTrialIndicationRepo(db, log),
		log,
	)
}

func TestCard_PrevalenceFirstRowPerIndicationWins(t *testing.T) {
	db := newTestDB(t)
	svc := newVariantService(t, db)

	mustCreate(t, db, []*types.MutationPrevalence{
		{Gene: "KRAS", VariantName: "G12C", CancerType: "Lung Adenocarcinoma",
			IndicationName: "NSCLC", SampleCount: 28, TotalProfiled: 200,
			Frequency: 0.14, Dataset: "MSK-IMPACT",
			CoMutations: jsonStrings(t, "STK11", "TP53")},
		{Gene: "KRAS", VariantName: "G12C", CancerType: "Lung Adenocarcinoma",
			IndicationName: "NSCLC", SampleCount: 1300, TotalProfiled: 10000,
			Frequency: 0.13, Dataset: "GENIE v15"},
		// No resolved indication: keyed by raw cancer type.
		{Gene: "KRAS", VariantName: "G12C", CancerType: "Appendiceal Cancer",
			SampleCount: 5, TotalProfiled: 100, Frequency: 0.05, Dataset: "GENIE v15"},
	})

	card, err := svc.Card(context.Background(), "KRAS", "G12C")
	if err != nil {
		t.Fatalf("card: %v", err)
	}
	if len(card.Prevalence) != 2 {
		t.Fatalf("expected 2 prevalence keys, got %v", card.Prevalence)
	}
	// Rows come back frequency-desc, so the MSK row wins the NSCLC key.
	nsclc := card.Prevalence["NSCLC"]
	if nsclc.Dataset != "MSK-IMPACT" || nsclc.Frequency != 0.14 {
		t.Fatalf("expected highest-frequency row to win, got %+v", nsclc)
	}
	if _, ok := card.Prevalence["Appendiceal Cancer"]; !ok {
		t.Fatalf("expected raw cancer type as fallback key, got %v", card.Prevalence)
	}
	if len(card.CoMutations) != 2 || card.CoMutations[0] != "STK11" {
		t.Fatalf("expected co-mutations from the first row carrying them, got %v", card.CoMutations)
	}
}

func TestCard_FDAApprovalsMatchVariantBySubstring(t *testing.T) {
	db := newTestDB(t)
	svc := newVariantService(t, db)

	d2021 := time.Date(2021, 5, 28, 0, 0, 0, 0, time.UTC)
	d2022 := time.Date(2022, 12, 12, 0, 0, 0, 0, time.UTC)
	mustCreate(t, db, []*types.FDAApproval{
		{BiomarkerGene: "KRAS", DrugName: "Krazati", ApplicationNumber: "NDA216340",
			BiomarkerVariant: "KRAS G12C mutation", ApprovalDate: &d2022},
		{BiomarkerGene: "KRAS", DrugName: "Lumakras", ApplicationNumber: "NDA214665",
			BiomarkerVariant: "G12C", ApprovalDate: &d2021},
		{BiomarkerGene: "KRAS", DrugName: "Other", ApplicationNumber: "NDA000001",
			BiomarkerVariant: "G12D"},
	})

	card, err := svc.Card(context.Background(), "KRAS", "G12C")
	if err != nil {
		t.Fatalf("card: %v", err)
	}
	if len(card.FDAApprovals) != 2 {
		t.Fatalf("expected 2 approvals, got %+v", card.FDAApprovals)
	}
	// Oldest approval first.
	if card.FDAApprovals[0].DrugName != "Lumakras" || card.FDAApprovals[1].DrugName != "Krazati" {
		t.Fatalf("unexpected order: %s, %s",
			card.FDAApprovals[0].DrugName, card.FDAApprovals[1].DrugName)
	}
}

func TestCard_ProvenanceDistinctNewestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := newVariantService(t, db)

	mustCreate(t, db, []*types.MutationPrevalence{
		{Gene: "KRAS", VariantName: "G12C", CancerType: "Lung Adenocarcinoma",
			IndicationName: "NSCLC", SampleCount: 28, TotalProfiled: 200,
			Frequency: 0.14, Dataset: "GENIE v15"},
	})
	var prev types.MutationPrevalence
	if err := db.First(&prev).Error; err != nil {
		t.Fatalf("load prevalence: %v", err)
	}

	older := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	mustCreate(t, db, []*types.DataProvenance{
		{EntityType: "prevalence", EntityID: prev.ID, SourceName: "cBioPortal",
			VersionTag: "GENIE v15", AccessDate: older},
		// Same triple again must collapse.
		{EntityType: "prevalence", EntityID: prev.ID, SourceName: "cBioPortal",
			VersionTag: "GENIE v15", AccessDate: older},
		{EntityType: "prevalence", EntityID: prev.ID, SourceName: "cBioPortal",
			VersionTag: "GENIE v15.1", AccessDate: newer},
	})

	card, err := svc.Card(context.Background(), "KRAS", "G12C")
	if err != nil {
		t.Fatalf("card: %v", err)
	}
	if len(card.Provenance) != 2 {
		t.Fatalf("expected 2 distinct provenance entries, got %+v", card.Provenance)
	}
	if card.Provenance[0].Version != "GENIE v15.1" {
		t.Fatalf("expected newest access first, got %+v", card.Provenance[0])
	}
}

func TestCard_EmptyDatabaseHasAllKeys(t *testing.T) {
	svc := newVariantService(t, newTestDB(t))

	card, err := svc.Card(context.Background(), "KRAS", "G12C")
	if err != nil {
		t.Fatalf("card: %v", err)
	}
	if card.Prevalence == nil || card.Actionability == nil {
		t.Fatalf("expected initialized maps, got %+v", card)
	}
	if card.FDAApprovals == nil || card.CivicEvidence == nil || card.Provenance == nil {
		t.Fatalf("expected initialized slices, got %+v", card)
	}
	if card.Trials.Total != 0 {
		t.Fatalf("expected no trials, got %d", card.Trials.Total)
	}
}

func TestLandscape_VariantsOrderedBySummedFrequency(t *testing.T) {
	db := newTestDB(t)
	svc := newVariantService(t, db)

	mustCreate(t, db, []*types.MutationPrevalence{
		{Gene: "KRAS", VariantName: "G12D", CancerType: "Colorectal Adenocarcinoma",
			IndicationName: "Colorectal Cancer", SampleCount: 120, TotalProfiled: 1000,
			Frequency: 0.12, Dataset: "GENIE v15"},
		{Gene: "KRAS", VariantName: "G12D", CancerType: "Lung Adenocarcinoma",
			IndicationName: "NSCLC", SampleCount: 40, TotalProfiled: 1000,
			Frequency: 0.04, Dataset: "GENIE v15"},
		{Gene: "KRAS", VariantName: "G12C", CancerType: "Lung Adenocarcinoma",
			IndicationName: "NSCLC", SampleCount: 130, TotalProfiled: 1000,
			Frequency: 0.13, Dataset: "GENIE v15"},
		// No indication mapping: excluded from the heatmap entirely.
		{Gene: "KRAS", VariantName: "G12V", CancerType: "Appendiceal Cancer",
			SampleCount: 5, TotalProfiled: 100, Frequency: 0.05, Dataset: "GENIE v15"},
	})
	mustCreate(t, db, []*types.VariantActionability{
		{Gene: "KRAS", VariantName: "G12C", CancerType: "Non-Small Cell Lung Cancer",
			IndicationName: "NSCLC", Level: "1", Drugs: jsonStrings(t, "Sotorasib")},
	})

	landscape, err := svc.Landscape(context.Background(), "KRAS")
	if err != nil {
		t.Fatalf("landscape: %v", err)
	}
	// G12D sums to 0.16, G12C to 0.13; the unmapped G12V never appears.
	if len(landscape.Variants) != 2 || landscape.Variants[0] != "G12D" || landscape.Variants[1] != "G12C" {
		t.Fatalf("unexpected variant order: %v", landscape.Variants)
	}
	if len(landscape.Indications) != 2 || landscape.Indications[0] != "Colorectal Cancer" {
		t.Fatalf("unexpected indications: %v", landscape.Indications)
	}
	if landscape.PrevalenceHeatmap["G12C"]["NSCLC"] != 0.13 {
		t.Fatalf("unexpected heatmap: %v", landscape.PrevalenceHeatmap)
	}
	cell := landscape.ActionabilityMap["G12C"]["NSCLC"]
	if cell.Level != "1" || len(cell.Drugs) != 1 {
		t.Fatalf("unexpected actionability cell: %+v", cell)
	}
}
