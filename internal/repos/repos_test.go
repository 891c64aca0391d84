package repos

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/oncoscope/oncoscope-backend/internal/logger"
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
		&types.MutationPrevalence{},
		&types.KnownDrug{},
		&types.PubMedArticle{},
		&types.TrialBiomarker{},
		&types.Trial{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func TestMutationPrevalenceUpsertIgnoreBatch_Idempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewMutationPrevalenceRepo(db, newTestLogger(t))
	ctx := context.Background()

	rows := []*types.MutationPrevalence{
		{Gene: "KRAS", VariantName: "G12C", CancerType: "Lung Adenocarcinoma",
			SampleCount: 130, TotalProfiled: 1000, Frequency: 0.13, Dataset: "GENIE v15"},
		{Gene: "KRAS", VariantName: "G12C", CancerType: "Lung Adenocarcinoma",
			SampleCount: 28, TotalProfiled: 200, Frequency: 0.14, Dataset: "MSK-IMPACT"},
	}
	if err := repo.UpsertIgnoreBatch(ctx, nil, rows); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	// Replaying the same natural keys must not duplicate or overwrite.
	replay := []*types.MutationPrevalence{
		{Gene: "KRAS", VariantName: "G12C", CancerType: "Lung Adenocarcinoma",
			SampleCount: 999, TotalProfiled: 9999, Frequency: 0.99, Dataset: "GENIE v15"},
	}
	if err := repo.UpsertIgnoreBatch(ctx, nil, replay); err != nil {
		t.Fatalf("replay upsert: %v", err)
	}

	got, err := repo.GetByGeneAndVariant(ctx, nil, "KRAS", "G12C")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows after replay, got %d", len(got))
	}
	// Frequency descending: MSK-IMPACT 0.14 before GENIE 0.13, and the
	// replayed values ignored.
	if got[0].Dataset != "MSK-IMPACT" || got[1].Frequency != 0.13 {
		t.Fatalf("unexpected rows: %+v, %+v", got[0], got[1])
	}
}

func TestMutationPrevalenceGet_EmptyArgsShortCircuit(t *testing.T) {
	repo := NewMutationPrevalenceRepo(newTestDB(t), newTestLogger(t))
	ctx := context.Background()

	got, err := repo.GetByGeneAndVariant(ctx, nil, "", "G12C")
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty result, got %v, %v", got, err)
	}
	got, err = repo.GetByGeneAndIndication(ctx, nil, "KRAS", "")
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty result, got %v, %v", got, err)
	}
}

func TestKnownDrugReplaceAll_Wholesale(t *testing.T) {
	db := newTestDB(t)
	repo := NewKnownDrugRepo(db, newTestLogger(t))
	ctx := context.Background()

	phase4 := 4.0
	first := []*types.KnownDrug{
		{BiomarkerSymbol: "KRAS", EnsemblID: "ENSG00000133703", DrugName: "Sotorasib",
			DrugChemblID: "CHEMBL4535757", DiseaseEFOID: "EFO_0003060",
			IndicationName: "NSCLC", MaxPhase: &phase4, IsApproved: true},
		{BiomarkerSymbol: "KRAS", EnsemblID: "ENSG00000133703", DrugName: "Adagrasib",
			DrugChemblID: "CHEMBL4594320", DiseaseEFOID: "EFO_0003060",
			IndicationName: "NSCLC"},
	}
	if err := repo.ReplaceAll(ctx, nil, first); err != nil {
		t.Fatalf("first replace: %v", err)
	}

	second := []*types.KnownDrug{
		{BiomarkerSymbol: "KRAS", EnsemblID: "ENSG00000133703", DrugName: "Sotorasib",
			DrugChemblID: "CHEMBL4535757", DiseaseEFOID: "EFO_0003060",
			IndicationName: "NSCLC", MaxPhase: &phase4, IsApproved: true},
	}
	if err := repo.ReplaceAll(ctx, nil, second); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	got, err := repo.GetByBiomarkerAndIndication(ctx, nil, "KRAS", "NSCLC")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 1 || got[0].DrugName != "Sotorasib" {
		t.Fatalf("expected the table replaced wholesale, got %+v", got)
	}

	// An empty slice clears the table.
	if err := repo.ReplaceAll(ctx, nil, nil); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, err = repo.GetByBiomarkerAndIndication(ctx, nil, "KRAS", "NSCLC")
	if err != nil || len(got) != 0 {
		t.Fatalf("expected cleared table, got %v, %v", got, err)
	}
}

func TestPubMedArticleGetRecent_NewestFirstNullDatesLast(t *testing.T) {
	db := newTestDB(t)
	repo := NewPubMedArticleRepo(db, newTestLogger(t))
	ctx := context.Background()

	d2023 := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	d2025 := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	rows := []*types.PubMedArticle{
		{PMID: "100", Title: "older", PubDate: &d2023},
		{PMID: "200", Title: "undated"},
		{PMID: "300", Title: "newer", PubDate: &d2025},
	}
	if err := repo.UpsertIgnoreBatch(ctx, nil, rows); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := repo.GetRecent(ctx, nil, 0)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 articles, got %d", len(got))
	}
	if got[0].PMID != "300" || got[1].PMID != "100" || got[2].PMID != "200" {
		t.Fatalf("unexpected order: %s, %s, %s", got[0].PMID, got[1].PMID, got[2].PMID)
	}

	got, err = repo.GetRecent(ctx, nil, 1)
	if err != nil || len(got) != 1 || got[0].PMID != "300" {
		t.Fatalf("expected limit applied, got %v, %v", got, err)
	}
}

func TestPubMedArticleUpsertIgnoreBatch_DedupsOnPMID(t *testing.T) {
	db := newTestDB(t)
	repo := NewPubMedArticleRepo(db, newTestLogger(t))
	ctx := context.Background()

	if err := repo.UpsertIgnoreBatch(ctx, nil, []*types.PubMedArticle{
		{PMID: "100", Title: "first"},
	}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := repo.UpsertIgnoreBatch(ctx, nil, []*types.PubMedArticle{
		{PMID: "100", Title: "changed"},
	}); err != nil {
		t.Fatalf("replay upsert: %v", err)
	}

	got, err := repo.GetRecent(ctx, nil, 0)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 1 || got[0].Title != "first" {
		t.Fatalf("expected original row kept, got %+v", got)
	}
}
