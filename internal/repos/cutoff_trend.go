package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/oncoscope/oncoscope-backend/internal/logger"
	"github.com/oncoscope/oncoscope-backend/internal/types"
)

type CutoffTrendRepo interface {
	GetByBiomarkerAndTumorType(ctx context.Context, tx *gorm.DB, biomarker, tumorType string) ([]*types.CutoffTrend, error)
	ReplaceAll(ctx context.Context, tx *gorm.DB, rows []*types.CutoffTrend) error
}

type cutoffTrendRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCutoffTrendRepo(db *gorm.DB, baseLog *logger.Logger) CutoffTrendRepo {
	return &cutoffTrendRepo{db: db, log: baseLog.With("repo", "CutoffTrendRepo")}
}

func (r *cutoffTrendRepo) GetByBiomarkerAndTumorType(ctx context.Context, tx *gorm.DB, biomarker, tumorType string) ([]*types.CutoffTrend, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.CutoffTrend
	if biomarker == "" || tumorType == "" {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("biomarker_name = ? AND tumor_type = ?", biomarker, tumorType).
		Order("year").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *cutoffTrendRepo) ReplaceAll(ctx context.Context, tx *gorm.DB, rows []*types.CutoffTrend) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Where("1 = 1").
		Delete(&types.CutoffTrend{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Create(&rows).Error
}
