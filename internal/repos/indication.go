package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oncoscope/oncoscope-backend/internal/logger"
	"github.com/oncoscope/oncoscope-backend/internal/types"
)

type IndicationRepo interface {
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Indication, error)
	GetByNames(ctx context.Context, tx *gorm.DB, names []string) ([]*types.Indication, error)
	UpsertBatch(ctx context.Context, tx *gorm.DB, rows []*types.Indication) error
}

type indicationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIndicationRepo(db *gorm.DB, baseLog *logger.Logger) IndicationRepo {
	return &indicationRepo{db: db, log: baseLog.With("repo", "IndicationRepo")}
}

func (r *indicationRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Indication, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Indication
	if err := transaction.WithContext(ctx).
		Order("name").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *indicationRepo) GetByNames(ctx context.Context, tx *gorm.DB, names []string) ([]*types.Indication, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Indication
	if len(names) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("name IN ?", names).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *indicationRepo) UpsertBatch(ctx context.Context, tx *gorm.DB, rows []*types.Indication) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"display_name", "ct_gov_terms", "efo_id"}),
		}).
		Create(&rows).Error
}
