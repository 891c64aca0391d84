package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/oncoscope/oncoscope-backend/internal/logger"
	"github.com/oncoscope/oncoscope-backend/internal/types"
)

type PipelineRunRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.PipelineRun) error
	Update(ctx context.Context, tx *gorm.DB, row *types.PipelineRun) error
}

type pipelineRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPipelineRunRepo(db *gorm.DB, baseLog *logger.Logger) PipelineRunRepo {
	return &pipelineRunRepo{db: db, log: baseLog.With("repo", "PipelineRunRepo")}
}

func (r *pipelineRunRepo) Create(ctx context.Context, tx *gorm.DB, row *types.PipelineRun) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil
	}
	return transaction.WithContext(ctx).Create(row).Error
}

func (r *pipelineRunRepo) Update(ctx context.Context, tx *gorm.DB, row *types.PipelineRun) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil || row.ID == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Save(row).Error
}
