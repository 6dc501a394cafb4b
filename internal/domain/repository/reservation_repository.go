package repository

import (
	"context"
	"time"

	"aeroclub-service/internal/domain/entity"
)

// ReservationRepository defines the interface for reservation storage.
type ReservationRepository interface {
	// HasOverlap reports whether any pending or confirmed reservation
	// for the aircraft intersects [start, end). Advisory fast path;
	// CreateGuarded re-checks under lock.
	HasOverlap(ctx context.Context, aircraftID uint, start, end time.Time) (bool, error)

	// CreateGuarded atomically re-runs the overlap check and inserts
	// the reservation, serialized per aircraft, so two concurrent
	// admissions for intersecting windows cannot both succeed.
	// Returns ErrSlotConflict on overlap.
	CreateGuarded(ctx context.Context, r *entity.Reservation) error

	GetByID(ctx context.Context, id uint) (*entity.Reservation, error)
	Save(ctx context.Context, r *entity.Reservation) error
	ListForAircraft(ctx context.Context, aircraftID uint, from, to time.Time) ([]entity.Reservation, error)
	ListAll(ctx context.Context) ([]entity.Reservation, error)
}
