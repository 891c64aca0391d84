package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oncoscope/oncoscope-backend/internal/logger"
	"github.com/oncoscope/oncoscope-backend/internal/types"
)

type MutationPrevalenceRepo interface {
	GetByGeneAndVariant(ctx context.Context, tx *gorm.DB, gene, variant string) ([]*types.MutationPrevalence, error)
	GetByGeneAndIndication(ctx context.Context, tx *gorm.DB, gene, indication string) ([]*types.MutationPrevalence, error)
	GetByGene(ctx context.Context, tx *gorm.DB, gene string) ([]*types.MutationPrevalence, error)
	UpsertIgnoreBatch(ctx context.Context, tx *gorm.DB, rows []*types.MutationPrevalence) error
}

type mutationPrevalenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMutationPrevalenceRepo(db *gorm.DB, baseLog *logger.Logger) MutationPrevalenceRepo {
	return &mutationPrevalenceRepo{db: db, log: baseLog.With("repo", "MutationPrevalenceRepo")}
}

func (r *mutationPrevalenceRepo) GetByGeneAndVariant(ctx context.Context, tx *gorm.DB, gene, variant string) ([]*types.MutationPrevalence, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.MutationPrevalence
	if gene == "" || variant == "" {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("gene = ? AND variant_name = ?", gene, variant).
		Order("frequency DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *mutationPrevalenceRepo) GetByGeneAndIndication(ctx context.Context, tx *gorm.DB, gene, indication string) ([]*types.MutationPrevalence, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.MutationPrevalence
	if gene == "" || indication == "" {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("gene = ? AND indication_name = ?", gene, indication).
		Order("total_profiled DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *mutationPrevalenceRepo) GetByGene(ctx context.Context, tx *gorm.DB, gene string) ([]*types.MutationPrevalence, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.MutationPrevalence
	if gene == "" {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("gene = ?", gene).
		Order("frequency DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *mutationPrevalenceRepo) UpsertIgnoreBatch(ctx context.Context, tx *gorm.DB, rows []*types.MutationPrevalence) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "gene"}, {Name: "variant_name"}, {Name: "cancer_type"}, {Name: "dataset"}},
			DoNothing: true,
		}).
		Create(&rows).Error
}
