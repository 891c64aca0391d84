package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/oncoscope/oncoscope-backend/internal/logger"
	"github.com/oncoscope/oncoscope-backend/internal/types"
)

type TargetAssociationRepo interface {
	GetByBiomarkerAndIndication(ctx context.Context, tx *gorm.DB, biomarker, indication string) ([]*types.TargetAssociation, error)
	GetByIndicationNames(ctx context.Context, tx *gorm.DB, indications []string) ([]*types.TargetAssociation, error)
	// ReplaceAll implements the wholesale delete+reinsert lifecycle: the
	// table is either fully old or fully new from the perspective of a
	// single read, and may briefly read empty mid-run.
	ReplaceAll(ctx context.Context, tx *gorm.DB, rows []*types.TargetAssociation) error
}

type targetAssociationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTargetAssociationRepo(db *gorm.DB, baseLog *logger.Logger) TargetAssociationRepo {
	return &targetAssociationRepo{db: db, log: baseLog.With("repo", "TargetAssociationRepo")}
}

func (r *targetAssociationRepo) GetByBiomarkerAndIndication(ctx context.Context, tx *gorm.DB, biomarker, indication string) ([]*types.TargetAssociation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.TargetAssociation
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

func (r *targetAssociationRepo) GetByIndicationNames(ctx context.Context, tx *gorm.DB, indications []string) ([]*types.TargetAssociation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.TargetAssociation
	if len(indications) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("indication_name IN ?", indications).
		Order("overall_score DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *targetAssociationRepo) ReplaceAll(ctx context.Context, tx *gorm.DB, rows []*types.TargetAssociation) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Where("1 = 1").
		Delete(&types.TargetAssociation{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Create(&rows).Error
}
