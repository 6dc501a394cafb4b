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

// GormMemberRepository implements the MemberRepository interface
type GormMemberRepository struct {
	db *gorm.DB
}

// NewGormMemberRepository creates a new GORM member repository
func NewGormMemberRepository(db *gorm.DB) repository.MemberRepository {
	return &GormMemberRepository{
		db: db,
	}
}

// Members GORM model for database mapping. The 90-day landing count is
// a snapshot column maintained by the flight-logging collaborator.
type Members struct {
	ID                 uint   `gorm:"primaryKey"`
	UserID             uint   `gorm:"column:user_id;uniqueIndex"`
	FirstName          string `gorm:"column:first_name"`
	LastName           string `gorm:"column:last_name"`
	PhoneNumber        string `gorm:"column:phone_number"`
	LicenseNumber      string `gorm:"column:license_number"`
	FFANumber          string `gorm:"column:ffa_number"`
	MedicalValidity    *time.Time
	LicenseValidity    *time.Time
	ClubValidity       *time.Time
	FederationValidity *time.Time
	AccountBalance     decimal.Decimal `gorm:"column:account_balance;type:numeric(10,2)"`
	LandingsLast90Days int             `gorm:"column:landings_last_90_days"`
	IsInstructor       bool
	IsStudent          bool
	DeletedAt          gorm.DeletedAt `gorm:"index"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName overrides the default table name
func (Members) TableName() string {
	return "m_members"
}

func toMemberEntity(m *Members) *entity.Member {
	return &entity.Member{
		ID:                 m.ID,
		UserID:             m.UserID,
		FirstName:          m.FirstName,
		LastName:           m.LastName,
		PhoneNumber:        m.PhoneNumber,
		LicenseNumber:      m.LicenseNumber,
		FFANumber:          m.FFANumber,
		MedicalValidity:    m.MedicalValidity,
		LicenseValidity:    m.LicenseValidity,
		ClubValidity:       m.ClubValidity,
		FederationValidity: m.FederationValidity,
		AccountBalance:     m.AccountBalance,
		LandingsLast90Days: m.LandingsLast90Days,
		IsInstructor:       m.IsInstructor,
		IsStudent:          m.IsStudent,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
		DeletedAt:          m.DeletedAt,
	}
}

func toMemberEntities(models []Members) []entity.Member {
	out := make([]entity.Member, 0, len(models))
	for i := range models {
		out = append(out, *toMemberEntity(&models[i]))
	}
	return out
}

// GetByUserID finds a member profile by user id
func (r *GormMemberRepository) GetByUserID(ctx context.Context, userID uint) (*entity.Member, error) {
	var member Members
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&member)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, result.Error
	}
	return toMemberEntity(&member), nil
}

// ListWithExpiringMedical returns members whose medical certificate
// expires on or before the given date
func (r *GormMemberRepository) ListWithExpiringMedical(ctx context.Context, before time.Time) ([]entity.Member, error) {
	var members []Members
	result := r.db.WithContext(ctx).
		Where("medical_validity IS NOT NULL AND medical_validity <= ?", before).
		Find(&members)
	if result.Error != nil {
		return nil, result.Error
	}
	return toMemberEntities(members), nil
}

// ListWithExpiringLicense returns members whose SEP rating expires on
// or before the given date
func (r *GormMemberRepository) ListWithExpiringLicense(ctx context.Context, before time.Time) ([]entity.Member, error) {
	var members []Members
	result := r.db.WithContext(ctx).
		Where("license_validity IS NOT NULL AND license_validity <= ?", before).
		Find(&members)
	if result.Error != nil {
		return nil, result.Error
	}
	return toMemberEntities(members), nil
}

// ListNonInstructors returns every member without the instructor flag
func (r *GormMemberRepository) ListNonInstructors(ctx context.Context) ([]entity.Member, error) {
	var members []Members
	result := r.db.WithContext(ctx).Where("is_instructor = ?", false).Find(&members)
	if result.Error != nil {
		return nil, result.Error
	}
	return toMemberEntities(members), nil
}

// ListWithBalanceAtMost returns members whose account balance is at or
// below the given limit
func (r *GormMemberRepository) ListWithBalanceAtMost(ctx context.Context, limit decimal.Decimal) ([]entity.Member, error) {
	var members []Members
	result := r.db.WithContext(ctx).Where("account_balance <= ?", limit).Find(&members)
	if result.Error != nil {
		return nil, result.Error
	}
	return toMemberEntities(members), nil
}
