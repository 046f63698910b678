package implementation

import (
	"context"

	"ai-jobadvisor-be/internal/model"
	"ai-jobadvisor-be/internal/repository/contract"

	"gorm.io/gorm"
)

type TurnArchiveRepositoryImpl struct {
	db *gorm.DB
}

func NewTurnArchiveRepository(db *gorm.DB) contract.TurnArchiveRepository {
	return &TurnArchiveRepositoryImpl{db: db}
}

func (r *TurnArchiveRepositoryImpl) Create(ctx context.Context, archive *model.TurnArchive) error {
	return r.db.WithContext(ctx).Create(archive).Error
}

func (r *TurnArchiveRepositoryImpl) FindBySessionId(ctx context.Context, sessionID string, limit int) ([]*model.TurnArchive, error) {
	var archives []*model.TurnArchive
	q := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("turn ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&archives).Error; err != nil {
		return nil, err
	}
	return archives, nil
}

func (r *TurnArchiveRepositoryImpl) CountBySessionId(ctx context.Context, sessionID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.TurnArchive{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	return count, err
}
