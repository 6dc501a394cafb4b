package repository

import (
	"context"
	"time"

	"aeroclub-service/internal/domain/entity"
)

// AlertRepository defines the interface for alert storage. Alerts are
// never hard-deleted; resolved alerts remain as history.
type AlertRepository interface {
	// Upsert creates the alert or updates the live record sharing its
	// UniqueKey (severity, title, message and concerned date are
	// refreshed; lifecycle status is left alone). Atomic per key.
	// Reports whether a new record was created.
	Upsert(ctx context.Context, a *entity.Alert) (created bool, err error)

	// Save persists lifecycle mutations of an existing alert.
	Save(ctx context.Context, a *entity.Alert) error

	GetByID(ctx context.Context, id uint) (*entity.Alert, error)
	ListActiveByType(ctx context.Context, t entity.AlertType) ([]entity.Alert, error)

	// ListActiveForUser returns the member's active alerts plus
	// fleet-wide (nil subject) ones, most severe first.
	ListActiveForUser(ctx context.Context, userID uint) ([]entity.Alert, error)
	ListBlockingForUser(ctx context.Context, userID uint) ([]entity.Alert, error)

	// Email notification handoff: the core flags, the collaborator
	// delivers.
	ListPendingEmail(ctx context.Context) ([]entity.Alert, error)
	MarkEmailSent(ctx context.Context, id uint, at time.Time) error
}
