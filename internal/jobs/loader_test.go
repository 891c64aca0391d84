package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/oncoscope/oncoscope-backend/internal/logger"
	"github.com/oncoscope/oncoscope-backend/internal/repos"
	"github.com/oncoscope/oncoscope-backend/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&types.Biomarker{},
		&types.Indication{},
		&types.Trial{},
		&types.TrialIndication{},
		&types.TrialBiomarker{},
		&types.Assay{},
		&types.TargetAssociation{},
		&types.KnownDrug{},
		&types.BiomarkerEvidence{},
		&types.MutationPrevalence{},
		&types.VariantActionability{},
		&types.FDAApproval{},
		&types.CivicEvidence{},
		&types.GWASAssociation{},
		&types.PubMedArticle{},
		&types.DataProvenance{},
		&types.CutoffTrend{},
		&types.PipelineRun{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestLoader(t *testing.T, db *gorm.DB) *Loader {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return NewLoader(
		db,
		repos.NewBiomarkerRepo(db, log),
		repos.NewIndicationRepo(db, log),
		repos.NewTrialRepo(db, log),
		repos.NewTrialIndicationRepo(db, log),
		repos.NewTrialBiomarkerRepo(db, log),
		repos.NewAssayRepo(db, log),
		repos.NewTargetAssociationRepo(db, log),
		repos.NewKnownDrugRepo(db, log),
		repos.NewBiomarkerEvidenceRepo(db, log),
		repos.NewMutationPrevalenceRepo(db, log),
		repos.NewVariantActionabilityRepo(db, log),
		repos.NewFDAApprovalRepo(db, log),
		repos.NewCivicEvidenceRepo(db, log),
		repos.NewGWASAssociationRepo(db, log),
		repos.NewPubMedArticleRepo(db, log),
		repos.NewDataProvenanceRepo(db, log),
		repos.NewPipelineRunRepo(db, log),
		nil,
		log,
	)
}

func writeBundle(t *testing.T, bundle Bundle) string {
	t.Helper()
	raw, err := json.Marshal(bundle)
	if err != nil {
		t.Fatalf("marshal bundle: %v", err)
	}
	path := filepath.Join(t.TempDir(), "bundle.json")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write bundle: %v", err)
	}
	return path
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestLoaderRun_AppliesBundleAndRecordsPipelineRun(t *testing.T) {
	db := newTestDB(t)
	loader := newTestLoader(t, db)
	ctx := context.Background()

	path := writeBundle(t, Bundle{
		Source: "opentargets",
		Indications: []*types.Indication{
			{Name: "NSCLC", DisplayName: "Non-Small Cell Lung Cancer", EFOID: "EFO_0003060"},
		},
		TargetAssociations: []*types.TargetAssociation{
			{BiomarkerSymbol: "KRAS", EnsemblID: "ENSG00000133703",
				IndicationName: "NSCLC", EFOID: "EFO_0003060", OverallScore: 0.82},
		},
		MutationPrevalence: []*types.MutationPrevalence{
			{Gene: "KRAS", VariantName: "G12C", CancerType: "Lung Adenocarcinoma",
				SampleCount: 130, TotalProfiled: 1000, Frequency: 0.13, Dataset: "GENIE v15"},
		},
	})

	if err := loader.Run(ctx, path); err != nil {
		t.Fatalf("run: %v", err)
	}

	if n := countRows(t, db, &types.TargetAssociation{}); n != 1 {
		t.Fatalf("expected 1 association, got %d", n)
	}
	if n := countRows(t, db, &types.MutationPrevalence{}); n != 1 {
		t.Fatalf("expected 1 prevalence row, got %d", n)
	}

	var run types.PipelineRun
	if err := db.First(&run).Error; err != nil {
		t.Fatalf("load pipeline run: %v", err)
	}
	if run.PipelineName != "enrichment-load:opentargets" {
		t.Fatalf("unexpected pipeline name %q", run.PipelineName)
	}
	if run.Status != "completed" || run.CompletedAt == nil {
		t.Fatalf("expected completed run, got %+v", run)
	}
	if run.RecordsProcessed != 3 {
		t.Fatalf("expected 3 records processed, got %d", run.RecordsProcessed)
	}
}

func TestLoaderRun_ReplayIsIdempotentForKeyedTables(t *testing.T) {
	db := newTestDB(t)
	loader := newTestLoader(t, db)
	ctx := context.Background()

	path := writeBundle(t, Bundle{
		Source: "cbioportal",
		MutationPrevalence: []*types.MutationPrevalence{
			{Gene: "KRAS", VariantName: "G12C", CancerType: "Lung Adenocarcinoma",
				SampleCount: 130, TotalProfiled: 1000, Frequency: 0.13, Dataset: "GENIE v15"},
			{Gene: "KRAS", VariantName: "G12D", CancerType: "Lung Adenocarcinoma",
				SampleCount: 90, TotalProfiled: 1000, Frequency: 0.09, Dataset: "GENIE v15"},
		},
		GWASAssociations: []*types.GWASAssociation{
			{RsID: "rs1", Gene: "KRAS", TraitName: "lung carcinoma", PValue: 1e-9},
		},
	})

	if err := loader.Run(ctx, path); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := loader.Run(ctx, path); err != nil {
		t.Fatalf("second run: %v", err)
	}

	if n := countRows(t, db, &types.MutationPrevalence{}); n != 2 {
		t.Fatalf("expected 2 prevalence rows after replay, got %d", n)
	}
	if n := countRows(t, db, &types.GWASAssociation{}); n != 1 {
		t.Fatalf("expected 1 gwas row after replay, got %d", n)
	}
	if n := countRows(t, db, &types.PipelineRun{}); n != 2 {
		t.Fatalf("expected one pipeline run per load, got %d", n)
	}
}

func TestLoaderRun_ReplacesAssociationTablesWholesale(t *testing.T) {
	db := newTestDB(t)
	loader := newTestLoader(t, db)
	ctx := context.Background()

	first := writeBundle(t, Bundle{
		TargetAssociations: []*types.TargetAssociation{
			{BiomarkerSymbol: "KRAS", EnsemblID: "ENSG00000133703",
				IndicationName: "NSCLC", EFOID: "EFO_0003060", OverallScore: 0.8},
			{BiomarkerSymbol: "EGFR", EnsemblID: "ENSG00000146648",
				IndicationName: "NSCLC", EFOID: "EFO_0003060", OverallScore: 0.9},
		},
	})
	if err := loader.Run(ctx, first); err != nil {
		t.Fatalf("first run: %v", err)
	}

	second := writeBundle(t, Bundle{
		TargetAssociations: []*types.TargetAssociation{
			{BiomarkerSymbol: "KRAS", EnsemblID: "ENSG00000133703",
				IndicationName: "NSCLC", EFOID: "EFO_0003060", OverallScore: 0.85},
		},
	})
	if err := loader.Run(ctx, second); err != nil {
		t.Fatalf("second run: %v", err)
	}

	var rows []*types.TargetAssociation
	if err := db.Find(&rows).Error; err != nil {
		t.Fatalf("load associations: %v", err)
	}
	if len(rows) != 1 || rows[0].OverallScore != 0.85 {
		t.Fatalf("expected replaced table with the new row, got %+v", rows)
	}

	// A bundle without the key leaves the table untouched.
	third := writeBundle(t, Bundle{
		GWASAssociations: []*types.GWASAssociation{
			{RsID: "rs2", Gene: "EGFR", TraitName: "lung carcinoma", PValue: 1e-7},
		},
	})
	if err := loader.Run(ctx, third); err != nil {
		t.Fatalf("third run: %v", err)
	}
	if n := countRows(t, db, &types.TargetAssociation{}); n != 1 {
		t.Fatalf("expected associations preserved, got %d rows", n)
	}
}

func TestLoaderRun_ResolvesIndicationNamesFromEFO(t *testing.T) {
	db := newTestDB(t)
	loader := newTestLoader(t, db)
	ctx := context.Background()

	if err := db.Create(&types.Indication{
		Name: "NSCLC", DisplayName: "Non-Small Cell Lung Cancer", EFOID: "EFO_0003060",
	}).Error; err != nil {
		t.Fatalf("seed indication: %v", err)
	}

	path := writeBundle(t, Bundle{
		TargetAssociations: []*types.TargetAssociation{
			{BiomarkerSymbol: "KRAS", EnsemblID: "ENSG00000133703",
				EFOID: "EFO_0003060", OverallScore: 0.8},
		},
		KnownDrugs: []*types.KnownDrug{
			{BiomarkerSymbol: "KRAS", EnsemblID: "ENSG00000133703", DrugName: "Sotorasib",
				DrugChemblID: "CHEMBL4535757", DiseaseEFOID: "EFO_0003060"},
		},
	})
	if err := loader.Run(ctx, path); err != nil {
		t.Fatalf("run: %v", err)
	}

	var assoc types.TargetAssociation
	if err := db.First(&assoc).Error; err != nil {
		t.Fatalf("load association: %v", err)
	}
	if assoc.IndicationName != "NSCLC" {
		t.Fatalf("expected resolved indication, got %q", assoc.IndicationName)
	}
	var drug types.KnownDrug
	if err := db.First(&drug).Error; err != nil {
		t.Fatalf("load drug: %v", err)
	}
	if drug.IndicationName != "NSCLC" {
		t.Fatalf("expected resolved indication on drug, got %q", drug.IndicationName)
	}
}

func TestLoaderRun_MissingFileFails(t *testing.T) {
	loader := newTestLoader(t, newTestDB(t))
	if err := loader.Run(context.Background(), "/nonexistent/bundle.json"); err == nil {
		t.Fatalf("expected error for missing bundle file")
	}
}
