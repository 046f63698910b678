package contract

import (
	"context"

	"ai-jobadvisor-be/internal/model"
)

type TurnArchiveRepository interface {
	Create(ctx context.Context, archive *model.TurnArchive) error
	FindBySessionId(ctx context.Context, sessionID string, limit int) ([]*model.TurnArchive, error)
	CountBySessionId(ctx context.Context, sessionID string) (int64, error)
}
