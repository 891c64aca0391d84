package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/oncoscope/oncoscope-backend/internal/logger"
	"github.com/oncoscope/oncoscope-backend/internal/types"
)

type BiomarkerEvidenceRepo interface {
	GetByBiomarkerAndIndication(ctx context.Context, tx *gorm.DB, biomarker, indication string) ([]*types.BiomarkerEvidence, error)
	GetByIndicationName(ctx context.Context, tx *gorm.DB, indication string) ([]*types.BiomarkerEvidence, error)
	ReplaceAll(ctx context.Context, tx *gorm.DB, rows []*types.BiomarkerEvidence) error
}

type biomarkerEvidenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBiomarkerEvidenceRepo(db *gorm.DB, baseLog *logger.Logger) BiomarkerEvidenceRepo {
	return &biomarkerEvidenceRepo{db: db, log: baseLog.With("repo", "BiomarkerEvidenceRepo")}
}

func (r *biomarkerEvidenceRepo) GetByBiomarkerAndIndication(ctx context.Context, tx *gorm.DB, biomarker, indication string) ([]*types.BiomarkerEvidence, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.BiomarkerEvidence
	if biomarker == "" || indication == "" {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("biomarker_symbol = ? AND indication_name = ?", biomarker, indication).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *biomarkerEvidenceRepo) GetByIndicationName(ctx context.Context, tx *gorm.DB, indication string) ([]*types.BiomarkerEvidence, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.BiomarkerEvidence
	if indication == "" {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("indication_name = ?", indication).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *biomarkerEvidenceRepo) ReplaceAll(ctx context.Context, tx *gorm.DB, rows []*types.BiomarkerEvidence) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Where("1 = 1").
		Delete(&types.BiomarkerEvidence{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Create(&rows).Error
}
