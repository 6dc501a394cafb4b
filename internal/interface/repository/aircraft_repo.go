package repository

import (
	"context"
	"errors"
	"time"

	"aeroclub-service/internal/domain/entity"
	"aeroclub-service/internal/domain/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormAircraftRepository implements the AircraftRepository interface
type GormAircraftRepository struct {
	db *gorm.DB
}

// NewGormAircraftRepository creates a new GORM aircraft repository
func NewGormAircraftRepository(db *gorm.DB) repository.AircraftRepository {
	return &GormAircraftRepository{
		db: db,
	}
}

// Aircrafts GORM model for database mapping
type Aircrafts struct {
	ID                        uint            `gorm:"primaryKey"`
	Registration              string          `gorm:"column:registration;unique"`
	ModelName                 string          `gorm:"column:model_name"`
	HourlyRate                decimal.Decimal `gorm:"column:hourly_rate;type:numeric(6,2)"`
	CurrentHours              decimal.Decimal `gorm:"column:current_hours;type:numeric(10,2)"`
	Status                    string          `gorm:"column:status"`
	CofAValidity              *time.Time      `gorm:"column:cofa_validity"`
	InsuranceValidity         *time.Time      `gorm:"column:insurance_validity"`
	HasOutstandingMaintenance bool            `gorm:"column:has_outstanding_maintenance"`
	DeletedAt                 gorm.DeletedAt  `gorm:"index"`
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

// TableName overrides the default table name
func (Aircrafts) TableName() string {
	return "m_aircraft"
}

// MaintenanceDeadlines GORM model for database mapping
type MaintenanceDeadlines struct {
	ID          uint             `gorm:"primaryKey"`
	AircraftID  uint             `gorm:"column:aircraft_id;index"`
	Title       string           `gorm:"column:title"`
	DueAtHours  *decimal.Decimal `gorm:"column:due_at_hours;type:numeric(10,2)"`
	DueAtDate   *time.Time       `gorm:"column:due_at_date"`
	Description string           `gorm:"column:description"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName overrides the default table name
func (MaintenanceDeadlines) TableName() string {
	return "m_maintenance_deadlines"
}

func toAircraftEntity(a *Aircrafts) *entity.Aircraft {
	return &entity.Aircraft{
		ID:                        a.ID,
		Registration:              a.Registration,
		ModelName:                 a.ModelName,
		HourlyRate:                a.HourlyRate,
		CurrentHours:              a.CurrentHours,
		Status:                    a.Status,
		CofAValidity:              a.CofAValidity,
		InsuranceValidity:         a.InsuranceValidity,
		HasOutstandingMaintenance: a.HasOutstandingMaintenance,
		CreatedAt:                 a.CreatedAt,
		UpdatedAt:                 a.UpdatedAt,
		DeletedAt:                 a.DeletedAt,
	}
}

func toDeadlineEntity(d *MaintenanceDeadlines) entity.MaintenanceDeadline {
	return entity.MaintenanceDeadline{
		ID:          d.ID,
		AircraftID:  d.AircraftID,
		Title:       d.Title,
		DueAtHours:  d.DueAtHours,
		DueAtDate:   d.DueAtDate,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// GetByID loads an aircraft with its maintenance deadlines
func (r *GormAircraftRepository) GetByID(ctx context.Context, id uint) (*entity.Aircraft, error) {
	var aircraft Aircrafts
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&aircraft)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, result.Error
	}

	var deadlines []MaintenanceDeadlines
	result = r.db.WithContext(ctx).Where("aircraft_id = ?", id).Find(&deadlines)
	if result.Error != nil {
		return nil, result.Error
	}

	out := toAircraftEntity(&aircraft)
	for i := range deadlines {
		out.Deadlines = append(out.Deadlines, toDeadlineEntity(&deadlines[i]))
	}
	return out, nil
}

// ListDeadlines returns every maintenance deadline with its aircraft
// attached
func (r *GormAircraftRepository) ListDeadlines(ctx context.Context) ([]entity.MaintenanceDeadline, error) {
	var deadlines []MaintenanceDeadlines
	result := r.db.WithContext(ctx).Find(&deadlines)
	if result.Error != nil {
		return nil, result.Error
	}

	var aircrafts []Aircrafts
	result = r.db.WithContext(ctx).Find(&aircrafts)
	if result.Error != nil {
		return nil, result.Error
	}
	byID := make(map[uint]*entity.Aircraft, len(aircrafts))
	for i := range aircrafts {
		byID[aircrafts[i].ID] = toAircraftEntity(&aircrafts[i])
	}

	out := make([]entity.MaintenanceDeadline, 0, len(deadlines))
	for i := range deadlines {
		d := toDeadlineEntity(&deadlines[i])
		d.Aircraft = byID[d.AircraftID]
		out = append(out, d)
	}
	return out, nil
}
