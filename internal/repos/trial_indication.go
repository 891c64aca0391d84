package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oncoscope/oncoscope-backend/internal/logger"
	"github.com/oncoscope/oncoscope-backend/internal/types"
)

type TrialIndicationRepo interface {
	GetByIndicationIDs(ctx context.Context, tx *gorm.DB, indicationIDs []int64) ([]*types.TrialIndication, error)
	UpsertIgnoreBatch(ctx context.Context, tx *gorm.DB, rows []*types.TrialIndication) error
}

type trialIndicationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTrialIndicationRepo(db *gorm.DB, baseLog *logger.Logger) TrialIndicationRepo {
	return &trialIndicationRepo{db: db, log: baseLog.With("repo", "TrialIndicationRepo")}
}

func (r *trialIndicationRepo) GetByIndicationIDs(ctx context.Context, tx *gorm.DB, indicationIDs []int64) ([]*types.TrialIndication, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.TrialIndication
	if len(indicationIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("indication_id IN ?", indicationIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *trialIndicationRepo) UpsertIgnoreBatch(ctx context.Context, tx *gorm.DB, rows []*types.TrialIndication) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "trial_id"}, {Name: "indication_id"}},
			DoNothing: true,
		}).
		Create(&rows).Error
}
