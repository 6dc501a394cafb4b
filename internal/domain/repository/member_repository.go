package repository

import (
	"context"
	"time"

	"aeroclub-service/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// MemberRepository defines the interface for pilot profile reads. The
// profiles are owned and mutated by the member-management collaborator;
// this core only consumes snapshots.
type MemberRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*entity.Member, error)
	ListWithExpiringMedical(ctx context.Context, before time.Time) ([]entity.Member, error)
	ListWithExpiringLicense(ctx context.Context, before time.Time) ([]entity.Member, error)
	ListNonInstructors(ctx context.Context) ([]entity.Member, error)
	ListWithBalanceAtMost(ctx context.Context, limit decimal.Decimal) ([]entity.Member, error)
}
