package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/oncoscope/oncoscope-backend/internal/logger"
	"github.com/oncoscope/oncoscope-backend/internal/types"
)

type DataProvenanceRepo interface {
	GetByEntities(ctx context.Context, tx *gorm.DB, entityType string, entityIDs []int64) ([]*types.DataProvenance, error)
	// AppendBatch inserts new provenance rows. Provenance is append-only;
	// there is deliberately no update or upsert path.
	AppendBatch(ctx context.Context, tx *gorm.DB, rows []*types.DataProvenance) error
}

type dataProvenanceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDataProvenanceRepo(db *gorm.DB, baseLog *logger.Logger) DataProvenanceRepo {
	return &dataProvenanceRepo{db: db, log: baseLog.With("repo", "DataProvenanceRepo")}
}

func (r *dataProvenanceRepo) GetByEntities(ctx context.Context, tx *gorm.DB, entityType string, entityIDs []int64) ([]*types.DataProvenance, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.DataProvenance
	if entityType == "" || len(entityIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("entity_type = ? AND entity_id IN ?", entityType, entityIDs).
		Order("access_date DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *dataProvenanceRepo) AppendBatch(ctx context.Context, tx *gorm.DB, rows []*types.DataProvenance) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).Create(&rows).Error
}
