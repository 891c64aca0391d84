package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oncoscope/oncoscope-backend/internal/logger"
	"github.com/oncoscope/oncoscope-backend/internal/types"
)

type TrialRepo interface {
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []int64) ([]*types.Trial, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Trial, error)
	UpsertBatch(ctx context.Context, tx *gorm.DB, rows []*types.Trial) error
}

type trialRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTrialRepo(db *gorm.DB, baseLog *logger.Logger) TrialRepo {
	return &trialRepo{db: db, log: baseLog.With("repo", "TrialRepo")}
}

func (r *trialRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []int64) ([]*types.Trial, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Trial
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *trialRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Trial, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Trial
	if err := transaction.WithContext(ctx).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *trialRepo) UpsertBatch(ctx context.Context, tx *gorm.DB, rows []*types.Trial) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "nct_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"brief_title", "official_title", "overall_status", "phase", "study_type",
				"lead_sponsor_name", "lead_sponsor_class", "start_date", "start_year",
				"completion_date", "enrollment_count", "brief_summary", "conditions", "interventions",
			}),
		}).
		Create(&rows).Error
}
