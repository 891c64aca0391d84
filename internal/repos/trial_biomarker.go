package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oncoscope/oncoscope-backend/internal/logger"
	"github.com/oncoscope/oncoscope-backend/internal/types"
)

type TrialBiomarkerRepo interface {
	GetByBiomarkerNames(ctx context.Context, tx *gorm.DB, names []string) ([]*types.TrialBiomarker, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.TrialBiomarker, error)
	DistinctBiomarkerNames(ctx context.Context, tx *gorm.DB) ([]string, error)
	UpsertIgnoreBatch(ctx context.Context, tx *gorm.DB, rows []*types.TrialBiomarker) error
}

type trialBiomarkerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTrialBiomarkerRepo(db *gorm.DB, baseLog *logger.Logger) TrialBiomarkerRepo {
	return &trialBiomarkerRepo{db: db, log: baseLog.With("repo", "TrialBiomarkerRepo")}
}

func (r *trialBiomarkerRepo) GetByBiomarkerNames(ctx context.Context, tx *gorm.DB, names []string) ([]*types.TrialBiomarker, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.TrialBiomarker
	if len(names) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("biomarker_name IN ?", names).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *trialBiomarkerRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.TrialBiomarker, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.TrialBiomarker
	if err := transaction.WithContext(ctx).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *trialBiomarkerRepo) DistinctBiomarkerNames(ctx context.Context, tx *gorm.DB) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var names []string
	if err := transaction.WithContext(ctx).
		Model(&types.TrialBiomarker{}).
		Distinct("biomarker_name").
		Order("biomarker_name").
		Pluck("biomarker_name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

func (r *trialBiomarkerRepo) UpsertIgnoreBatch(ctx context.Context, tx *gorm.DB, rows []*types.TrialBiomarker) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "trial_id"}, {Name: "biomarker_id"}, {Name: "cutoff_value"}, {Name: "cutoff_unit"}},
			DoNothing: true,
		}).
		Create(&rows).Error
}
