package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oncoscope/oncoscope-backend/internal/logger"
	"github.com/oncoscope/oncoscope-backend/internal/types"
)

type BiomarkerRepo interface {
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Biomarker, error)
	GetByNames(ctx context.Context, tx *gorm.DB, names []string) ([]*types.Biomarker, error)
	UpsertBatch(ctx context.Context, tx *gorm.DB, rows []*types.Biomarker) error
}

type biomarkerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBiomarkerRepo(db *gorm.DB, baseLog *logger.Logger) BiomarkerRepo {
	return &biomarkerRepo{db: db, log: baseLog.With("repo", "BiomarkerRepo")}
}

func (r *biomarkerRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Biomarker, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Biomarker
	if err := transaction.WithContext(ctx).
		Order("name").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *biomarkerRepo) GetByNames(ctx context.Context, tx *gorm.DB, names []string) ([]*types.Biomarker, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Biomarker
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

func (r *biomarkerRepo) UpsertBatch(ctx context.Context, tx *gorm.DB, rows []*types.Biomarker) error {
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
			DoUpdates: clause.AssignmentColumns([]string{"aliases", "category", "description", "gene_symbol", "ensembl_id", "uniprot_id", "search_terms"}),
		}).
		Create(&rows).Error
}
