package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oncoscope/oncoscope-backend/internal/logger"
	"github.com/oncoscope/oncoscope-backend/internal/types"
)

type AssayRepo interface {
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Assay, error)
	UpsertBatch(ctx context.Context, tx *gorm.DB, rows []*types.Assay) error
}

type assayRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssayRepo(db *gorm.DB, baseLog *logger.Logger) AssayRepo {
	return &assayRepo{db: db, log: baseLog.With("repo", "AssayRepo")}
}

func (r *assayRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Assay, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Assay
	if err := transaction.WithContext(ctx).
		Order("fda_approved DESC, name").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *assayRepo) UpsertBatch(ctx context.Context, tx *gorm.DB, rows []*types.Assay) error {
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
			DoUpdates: clause.AssignmentColumns([]string{"manufacturer", "platform", "fda_approved", "companion_dx_for", "biomarker_names", "source"}),
		}).
		Create(&rows).Error
}
