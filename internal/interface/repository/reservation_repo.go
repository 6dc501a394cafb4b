package repository

import (
	"context"
	"errors"
	"time"

	"aeroclub-service/internal/domain/entity"
	"aeroclub-service/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormReservationRepository implements the ReservationRepository
// interface
type GormReservationRepository struct {
	db *gorm.DB
}

// NewGormReservationRepository creates a new GORM reservation
// repository
func NewGormReservationRepository(db *gorm.DB) repository.ReservationRepository {
	return &GormReservationRepository{
		db: db,
	}
}

// Reservations GORM model for database mapping
type Reservations struct {
	ID                 uint   `gorm:"primaryKey"`
	Reference          string `gorm:"column:reference;uniqueIndex"`
	UserID             uint   `gorm:"column:user_id;index"`
	AircraftID         uint   `gorm:"column:aircraft_id;index"`
	StartTime          time.Time
	EndTime            time.Time
	Title              string
	Destination        string
	IsInstruction      bool
	InstructorID       *uint
	PassengersCount    int
	Status             string `gorm:"column:status;index"`
	EligibilityChecked bool
	EligibilityNotes   string `gorm:"column:eligibility_notes;type:text"`
	ForceAllowed       bool
	ForceAllowedByID   *uint
	Notes              string `gorm:"column:notes;type:text"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName overrides the default table name
func (Reservations) TableName() string {
	return "t_reservations"
}

func toReservationModel(r *entity.Reservation) Reservations {
	return Reservations{
		ID:                 r.ID,
		Reference:          r.Reference,
		UserID:             r.UserID,
		AircraftID:         r.AircraftID,
		StartTime:          r.StartTime,
		EndTime:            r.EndTime,
		Title:              r.Title,
		Destination:        r.Destination,
		IsInstruction:      r.IsInstruction,
		InstructorID:       r.InstructorID,
		PassengersCount:    r.PassengersCount,
		Status:             r.Status,
		EligibilityChecked: r.EligibilityChecked,
		EligibilityNotes:   r.EligibilityNotes,
		ForceAllowed:       r.ForceAllowed,
		ForceAllowedByID:   r.ForceAllowedByID,
		Notes:              r.Notes,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

func toReservationEntity(m *Reservations) *entity.Reservation {
	return &entity.Reservation{
		ID:                 m.ID,
		Reference:          m.Reference,
		UserID:             m.UserID,
		AircraftID:         m.AircraftID,
		StartTime:          m.StartTime,
		EndTime:            m.EndTime,
		Title:              m.Title,
		Destination:        m.Destination,
		IsInstruction:      m.IsInstruction,
		InstructorID:       m.InstructorID,
		PassengersCount:    m.PassengersCount,
		Status:             m.Status,
		EligibilityChecked: m.EligibilityChecked,
		EligibilityNotes:   m.EligibilityNotes,
		ForceAllowed:       m.ForceAllowed,
		ForceAllowedByID:   m.ForceAllowedByID,
		Notes:              m.Notes,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

// blocking statuses for the overlap check
var slotStatuses = []string{entity.ReservationPending, entity.ReservationConfirmed}

// HasOverlap reports whether any pending or confirmed reservation for
// the aircraft intersects [start, end)
func (r *GormReservationRepository) HasOverlap(ctx context.Context, aircraftID uint, start, end time.Time) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&Reservations{}).
		Where("aircraft_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			aircraftID, slotStatuses, end, start).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

// CreateGuarded runs the overlap check and the insert in one
// transaction, serialized per aircraft by a row-level lock on the
// aircraft record, so two concurrent admissions for intersecting
// windows cannot both commit.
func (r *GormReservationRepository) CreateGuarded(ctx context.Context, res *entity.Reservation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var aircraft Aircrafts
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", res.AircraftID).First(&aircraft)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return repository.ErrNotFound
			}
			return result.Error
		}

		var count int64
		result = tx.Model(&Reservations{}).
			Where("aircraft_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
				res.AircraftID, slotStatuses, res.EndTime, res.StartTime).
			Count(&count)
		if result.Error != nil {
			return result.Error
		}
		if count > 0 {
			return repository.ErrSlotConflict
		}

		model := toReservationModel(res)
		if err := tx.Create(&model).Error; err != nil {
			return err
		}
		res.ID = model.ID
		res.CreatedAt = model.CreatedAt
		res.UpdatedAt = model.UpdatedAt
		return nil
	})
}

// GetByID finds a reservation by id
func (r *GormReservationRepository) GetByID(ctx context.Context, id uint) (*entity.Reservation, error) {
	var model Reservations
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, result.Error
	}
	return toReservationEntity(&model), nil
}

// Save persists mutations of an existing reservation
func (r *GormReservationRepository) Save(ctx context.Context, res *entity.Reservation) error {
	model := toReservationModel(res)
	return r.db.WithContext(ctx).Save(&model).Error
}

// ListForAircraft returns the reservations of one aircraft whose
// window intersects [from, to)
func (r *GormReservationRepository) ListForAircraft(ctx context.Context, aircraftID uint, from, to time.Time) ([]entity.Reservation, error) {
	var models []Reservations
	result := r.db.WithContext(ctx).
		Where("aircraft_id = ? AND start_time < ? AND end_time > ?", aircraftID, to, from).
		Order("start_time").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}
	out := make([]entity.Reservation, 0, len(models))
	for i := range models {
		out = append(out, *toReservationEntity(&models[i]))
	}
	return out, nil
}

// ListAll returns every reservation, most recent first
func (r *GormReservationRepository) ListAll(ctx context.Context) ([]entity.Reservation, error) {
	var models []Reservations
	result := r.db.WithContext(ctx).Order("start_time DESC").Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}
	out := make([]entity.Reservation, 0, len(models))
	for i := range models {
		out = append(out, *toReservationEntity(&models[i]))
	}
	return out, nil
}
