package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/oncoscope/oncoscope-backend/internal/logger"
	"github.com/oncoscope/oncoscope-backend/internal/types"
)

type KnownDrugRepo interface {
	GetByBiomarkerAndIndication(ctx context.Context, tx *gorm.DB, biomarker, indication string) ([]*types.KnownDrug, error)
	ReplaceAll(ctx context.Context, tx *gorm.DB, rows []*types.KnownDrug) error
}

type knownDrugRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewKnownDrugRepo(db *gorm.DB, baseLog *logger.Logger) KnownDrugRepo {
	return &knownDrugRepo{db: db, log: baseLog.With("repo", "KnownDrugRepo")}
}

func (r *knownDrugRepo) GetByBiomarkerAndIndication(ctx context.Context, tx *gorm.DB, biomarker, indication string) ([]*types.KnownDrug, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.KnownDrug
	if biomarker == "" || indication == "" {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("biomarker_symbol = ? AND indication_name = ?", biomarker, indication).
		Order("max_phase DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *knownDrugRepo) ReplaceAll(ctx context.Context, tx *gorm.DB, rows []*types.KnownDrug) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Where("1 = 1").
		Delete(&types.KnownDrug{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Create(&rows).Error
}
