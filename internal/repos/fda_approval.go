package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oncoscope/oncoscope-backend/internal/logger"
	"github.com/oncoscope/oncoscope-backend/internal/types"
)

type FDAApprovalRepo interface {
	GetByGene(ctx context.Context, tx *gorm.DB, gene string) ([]*types.FDAApproval, error)
	UpsertIgnoreBatch(ctx context.Context, tx *gorm.DB, rows []*types.FDAApproval) error
}

type fdaApprovalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFDAApprovalRepo(db *gorm.DB, baseLog *logger.Logger) FDAApprovalRepo {
	return &fdaApprovalRepo{db: db, log: baseLog.With("repo", "FDAApprovalRepo")}
}

func (r *fdaApprovalRepo) GetByGene(ctx context.Context, tx *gorm.DB, gene string) ([]*types.FDAApproval, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.FDAApproval
	if gene == "" {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("biomarker_gene = ?", gene).
		Order("approval_date").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *fdaApprovalRepo) UpsertIgnoreBatch(ctx context.Context, tx *gorm.DB, rows []*types.FDAApproval) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "application_number"}, {Name: "supplement_number"}, {Name: "biomarker_variant"}},
			DoNothing: true,
		}).
		Create(&rows).Error
}
