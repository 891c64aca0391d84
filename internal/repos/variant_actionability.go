package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oncoscope/oncoscope-backend/internal/logger"
	"github.com/oncoscope/oncoscope-backend/internal/types"
)

type VariantActionabilityRepo interface {
	GetByGeneAndVariant(ctx context.Context, tx *gorm.DB, gene, variant string) ([]*types.VariantActionability, error)
	GetByGene(ctx context.Context, tx *gorm.DB, gene string) ([]*types.VariantActionability, error)
	UpsertIgnoreBatch(ctx context.Context, tx *gorm.DB, rows []*types.VariantActionability) error
}

type variantActionabilityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVariantActionabilityRepo(db *gorm.DB, baseLog *logger.Logger) VariantActionabilityRepo {
	return &variantActionabilityRepo{db: db, log: baseLog.With("repo", "VariantActionabilityRepo")}
}

func (r *variantActionabilityRepo) GetByGeneAndVariant(ctx context.Context, tx *gorm.DB, gene, variant string) ([]*types.VariantActionability, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.VariantActionability
	if gene == "" || variant == "" {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("gene = ? AND variant_name = ?", gene, variant).
		Order("level").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *variantActionabilityRepo) GetByGene(ctx context.Context, tx *gorm.DB, gene string) ([]*types.VariantActionability, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.VariantActionability
	if gene == "" {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("gene = ?", gene).
		Order("level").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *variantActionabilityRepo) UpsertIgnoreBatch(ctx context.Context, tx *gorm.DB, rows []*types.VariantActionability) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "gene"}, {Name: "variant_name"}, {Name: "cancer_type"}},
			DoNothing: true,
		}).
		Create(&rows).Error
}
