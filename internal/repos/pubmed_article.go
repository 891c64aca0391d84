package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oncoscope/oncoscope-backend/internal/logger"
	"github.com/oncoscope/oncoscope-backend/internal/types"
)

type PubMedArticleRepo interface {
	// GetRecent returns articles newest-first; null publication dates sort
	// last. Mention filtering happens in the services layer.
	GetRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.PubMedArticle, error)
	UpsertIgnoreBatch(ctx context.Context, tx *gorm.DB, rows []*types.PubMedArticle) error
}

type pubMedArticleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPubMedArticleRepo(db *gorm.DB, baseLog *logger.Logger) PubMedArticleRepo {
	return &pubMedArticleRepo{db: db, log: baseLog.With("repo", "PubMedArticleRepo")}
}

func (r *pubMedArticleRepo) GetRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.PubMedArticle, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.PubMedArticle
	query := transaction.WithContext(ctx).
		Order("pub_date DESC NULLS LAST")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *pubMedArticleRepo) UpsertIgnoreBatch(ctx context.Context, tx *gorm.DB, rows []*types.PubMedArticle) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pmid"}},
			DoNothing: true,
		}).
		Create(&rows).Error
}
