package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	"aeroclub-service/internal/domain/entity"
	"aeroclub-service/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAlertRepository implements the AlertRepository interface
type GormAlertRepository struct {
	db *gorm.DB
}

// NewGormAlertRepository creates a new GORM alert repository
func NewGormAlertRepository(db *gorm.DB) repository.AlertRepository {
	return &GormAlertRepository{
		db: db,
	}
}

// Alerts GORM model for database mapping. Severity is stored as its
// string form; ordering always goes through the entity enum, never the
// string.
type Alerts struct {
	ID             uint   `gorm:"primaryKey"`
	UserID         *uint  `gorm:"column:user_id;index:idx_alerts_user_status"`
	AircraftID     *uint  `gorm:"column:aircraft_id;index"`
	AlertType      string `gorm:"column:alert_type;index:idx_alerts_type_status"`
	Severity       string `gorm:"column:severity"`
	Status         string `gorm:"column:status;index:idx_alerts_user_status;index:idx_alerts_type_status"`
	Title          string `gorm:"column:title"`
	Message        string `gorm:"column:message;type:text"`
	ExpiresAt      *time.Time
	UniqueKey      string `gorm:"column:unique_key;uniqueIndex"`
	EmailSent      bool
	EmailSentAt    *time.Time
	AcknowledgedAt *time.Time
	ResolvedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName overrides the default table name
func (Alerts) TableName() string {
	return "t_alerts"
}

func toAlertModel(a *entity.Alert) Alerts {
	return Alerts{
		ID:             a.ID,
		UserID:         a.UserID,
		AircraftID:     a.AircraftID,
		AlertType:      string(a.Type),
		Severity:       a.Severity.String(),
		Status:         a.Status,
		Title:          a.Title,
		Message:        a.Message,
		ExpiresAt:      a.ExpiresAt,
		UniqueKey:      a.UniqueKey,
		EmailSent:      a.EmailSent,
		EmailSentAt:    a.EmailSentAt,
		AcknowledgedAt: a.AcknowledgedAt,
		ResolvedAt:     a.ResolvedAt,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func toAlertEntity(m *Alerts) *entity.Alert {
	return &entity.Alert{
		ID:             m.ID,
		UserID:         m.UserID,
		AircraftID:     m.AircraftID,
		Type:           entity.AlertType(m.AlertType),
		Severity:       entity.ParseSeverity(m.Severity),
		Status:         m.Status,
		Title:          m.Title,
		Message:        m.Message,
		ExpiresAt:      m.ExpiresAt,
		UniqueKey:      m.UniqueKey,
		EmailSent:      m.EmailSent,
		EmailSentAt:    m.EmailSentAt,
		AcknowledgedAt: m.AcknowledgedAt,
		ResolvedAt:     m.ResolvedAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toAlertEntities(models []Alerts) []entity.Alert {
	out := make([]entity.Alert, 0, len(models))
	for i := range models {
		out = append(out, *toAlertEntity(&models[i]))
	}
	return out
}

// Upsert creates the alert or refreshes the record sharing its unique
// key, in a single INSERT ... ON CONFLICT statement so concurrent scan
// runs cannot duplicate a key. Lifecycle status is left alone on
// update.
func (r *GormAlertRepository) Upsert(ctx context.Context, a *entity.Alert) (bool, error) {
	var existing Alerts
	err := r.db.WithContext(ctx).Where("unique_key = ?", a.UniqueKey).First(&existing).Error
	created := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !created {
		return false, err
	}

	model := toAlertModel(a)
	model.ID = 0
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "unique_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"severity", "title", "message", "expires_at", "updated_at",
		}),
	}).Create(&model)
	if result.Error != nil {
		return false, result.Error
	}

	if created {
		a.ID = model.ID
	} else {
		a.ID = existing.ID
		a.Status = existing.Status
		a.CreatedAt = existing.CreatedAt
	}
	return created, nil
}

// Save persists lifecycle mutations of an existing alert
func (r *GormAlertRepository) Save(ctx context.Context, a *entity.Alert) error {
	return r.db.WithContext(ctx).Model(&Alerts{}).
		Where("id = ?", a.ID).
		Updates(map[string]interface{}{
			"status":          a.Status,
			"acknowledged_at": a.AcknowledgedAt,
			"resolved_at":     a.ResolvedAt,
			"email_sent":      a.EmailSent,
			"email_sent_at":   a.EmailSentAt,
			"updated_at":      time.Now(),
		}).Error
}

// GetByID finds an alert by id
func (r *GormAlertRepository) GetByID(ctx context.Context, id uint) (*entity.Alert, error) {
	var model Alerts
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, result.Error
	}
	return toAlertEntity(&model), nil
}

// ListActiveByType returns every active alert of one category
func (r *GormAlertRepository) ListActiveByType(ctx context.Context, t entity.AlertType) ([]entity.Alert, error) {
	var models []Alerts
	result := r.db.WithContext(ctx).
		Where("alert_type = ? AND status = ?", string(t), entity.AlertActive).
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}
	return toAlertEntities(models), nil
}

// ListActiveForUser returns the member's active alerts plus the
// fleet-wide ones, most severe first
func (r *GormAlertRepository) ListActiveForUser(ctx context.Context, userID uint) ([]entity.Alert, error) {
	var models []Alerts
	result := r.db.WithContext(ctx).
		Where("(user_id = ? OR user_id IS NULL) AND status = ?", userID, entity.AlertActive).
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}
	alerts := toAlertEntities(models)
	sortBySeverity(alerts)
	return alerts, nil
}

// ListBlockingForUser returns the member's active BLOCKING alerts
func (r *GormAlertRepository) ListBlockingForUser(ctx context.Context, userID uint) ([]entity.Alert, error) {
	var models []Alerts
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND severity = ? AND status = ?",
			userID, entity.SeverityBlocking.String(), entity.AlertActive).
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}
	return toAlertEntities(models), nil
}

// ListPendingEmail returns active alerts whose email notification has
// not been handed off yet
func (r *GormAlertRepository) ListPendingEmail(ctx context.Context) ([]entity.Alert, error) {
	var models []Alerts
	result := r.db.WithContext(ctx).
		Where("email_sent = ? AND status = ?", false, entity.AlertActive).
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}
	return toAlertEntities(models), nil
}

// MarkEmailSent records that the notification collaborator delivered
// the email
func (r *GormAlertRepository) MarkEmailSent(ctx context.Context, id uint, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&Alerts{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"email_sent":    true,
			"email_sent_at": at,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// sortBySeverity orders alerts most severe first, newest first within a
// level. Severity is compared on the enum, string comparison would be
// wrong.
func sortBySeverity(alerts []entity.Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].Severity != alerts[j].Severity {
			return alerts[i].Severity > alerts[j].Severity
		}
		return alerts[i].CreatedAt.After(alerts[j].CreatedAt)
	})
}
