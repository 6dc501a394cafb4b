package repository

import (
	"context"
	"errors"
	"time"

	"aeroclub-service/internal/domain/entity"
	"aeroclub-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormAlertConfigRepository implements the AlertConfigRepository
// interface
type GormAlertConfigRepository struct {
	db *gorm.DB
}

// NewGormAlertConfigRepository creates a new GORM alert config
// repository
func NewGormAlertConfigRepository(db *gorm.DB) repository.AlertConfigRepository {
	return &GormAlertConfigRepository{
		db: db,
	}
}

// AlertConfigs GORM model for database mapping
type AlertConfigs struct {
	ID            uint   `gorm:"primaryKey"`
	AlertType     string `gorm:"column:alert_type;unique"`
	DaysInfo      int    `gorm:"column:days_info;default:60"`
	DaysWarning   int    `gorm:"column:days_warning;default:30"`
	DaysCritical  int    `gorm:"column:days_critical;default:7"`
	BlockOnExpiry bool   `gorm:"column:block_on_expiry;default:true"`
	SendEmail     bool   `gorm:"column:send_email;default:true"`
	IsActive      bool   `gorm:"column:is_active;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName overrides the default table name
func (AlertConfigs) TableName() string {
	return "m_alert_configs"
}

// GetActive finds the active configuration row for an alert type
func (r *GormAlertConfigRepository) GetActive(ctx context.Context, t entity.AlertType) (*entity.AlertConfig, error) {
	var config AlertConfigs
	result := r.db.WithContext(ctx).
		Where("alert_type = ? AND is_active = ?", string(t), true).
		First(&config)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, result.Error
	}
	return &entity.AlertConfig{
		AlertType:     entity.AlertType(config.AlertType),
		DaysInfo:      config.DaysInfo,
		DaysWarning:   config.DaysWarning,
		DaysCritical:  config.DaysCritical,
		BlockOnExpiry: config.BlockOnExpiry,
		SendEmail:     config.SendEmail,
		IsActive:      config.IsActive,
	}, nil
}
