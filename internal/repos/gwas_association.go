package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oncoscope/oncoscope-backend/internal/logger"
	"github.com/oncoscope/oncoscope-backend/internal/types"
)

type GWASAssociationRepo interface {
	// GetTopByGenes returns the strongest associations (ascending p-value)
	// for a batched gene-symbol list.
	GetTopByGenes(ctx context.Context, tx *gorm.DB, genes []string, limit int) ([]*types.GWASAssociation, error)
	UpsertIgnoreBatch(ctx context.Context, tx *gorm.DB, rows []*types.GWASAssociation) error
}

type gwasAssociationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGWASAssociationRepo(db *gorm.DB, baseLog *logger.Logger) GWASAssociationRepo {
	return &gwasAssociationRepo{db: db, log: baseLog.With("repo", "GWASAssociationRepo")}
}

func (r *gwasAssociationRepo) GetTopByGenes(ctx context.Context, tx *gorm.DB, genes []string, limit int) ([]*types.GWASAssociation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.GWASAssociation
	if len(genes) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("gene IN ?", genes).
		Order("p_value ASC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *gwasAssociationRepo) UpsertIgnoreBatch(ctx context.Context, tx *gorm.DB, rows []*types.GWASAssociation) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "rs_id"}, {Name: "trait_name"}},
			DoNothing: true,
		}).
		Create(&rows).Error
}
