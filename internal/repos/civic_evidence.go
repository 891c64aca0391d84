package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oncoscope/oncoscope-backend/internal/logger"
	"github.com/oncoscope/oncoscope-backend/internal/types"
)

type CivicEvidenceRepo interface {
	GetByGeneAndVariant(ctx context.Context, tx *gorm.DB, gene, variant string) ([]*types.CivicEvidence, error)
	UpsertIgnoreBatch(ctx context.Context, tx *gorm.DB, rows []*types.CivicEvidence) error
}

type civicEvidenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCivicEvidenceRepo(db *gorm.DB, baseLog *logger.Logger) CivicEvidenceRepo {
	return &civicEvidenceRepo{db: db, log: baseLog.With("repo", "CivicEvidenceRepo")}
}

func (r *civicEvidenceRepo) GetByGeneAndVariant(ctx context.Context, tx *gorm.DB, gene, variant string) ([]*types.CivicEvidence, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.CivicEvidence
	if gene == "" || variant == "" {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("gene_name = ? AND variant_name = ?", gene, variant).
		Order("evidence_level").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *civicEvidenceRepo) UpsertIgnoreBatch(ctx context.Context, tx *gorm.DB, rows []*types.CivicEvidence) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "civic_id"}},
			DoNothing: true,
		}).
		Create(&rows).Error
}
