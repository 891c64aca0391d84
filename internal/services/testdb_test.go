package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/oncoscope/oncoscope-backend/internal/logger"
	"github.com/oncoscope/oncoscope-backend/internal/types"
)

// newTestDB opens a private in-memory database and migrates the full schema
// so any service under test can run against it.
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

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func mustCreate(t *testing.T, db *gorm.DB, rows any) {
	t.Helper()
	if err := db.Create(rows).Error; err != nil {
		t.Fatalf("seed rows: %v", err)
	}
}
