package repository

import (
	"context"

	"aeroclub-service/internal/domain/entity"
)

// DecisionLogRepository defines the interface for the admission
// decision audit archive.
type DecisionLogRepository interface {
	Insert(ctx context.Context, rec *entity.DecisionRecord) error
	ListForUser(ctx context.Context, userID uint, limit int64) ([]entity.DecisionRecord, error)
}
