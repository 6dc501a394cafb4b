package repository

import (
	"context"

	"aeroclub-service/internal/domain/entity"
)

// AircraftRepository defines the interface for fleet reads. Owned by
// the fleet-management collaborator.
type AircraftRepository interface {
	// GetByID loads an aircraft with its maintenance deadlines.
	GetByID(ctx context.Context, id uint) (*entity.Aircraft, error)

	// ListDeadlines returns every maintenance deadline with its
	// aircraft attached.
	ListDeadlines(ctx context.Context) ([]entity.MaintenanceDeadline, error)
}
