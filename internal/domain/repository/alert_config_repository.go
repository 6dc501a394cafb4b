package repository

import (
	"context"

	"aeroclub-service/internal/domain/entity"
)

// AlertConfigRepository defines the interface for per-type alert
// threshold configuration. Returns ErrNotFound when no active row
// exists; callers fall back to defaults.
type AlertConfigRepository interface {
	GetActive(ctx context.Context, t entity.AlertType) (*entity.AlertConfig, error)
}
