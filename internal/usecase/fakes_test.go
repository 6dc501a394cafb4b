package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"aeroclub-service/internal/domain/entity"
	"aeroclub-service/internal/domain/repository"
	"aeroclub-service/pkg/metrics"

	"github.com/shopspring/decimal"
)

// Shared across the package: promauto registers against the default
// registry and a second registration would panic.
var testMetrics = metrics.NewMetrics("aeroclub_test")

type fakeMemberRepo struct {
	members map[uint]*entity.Member
}

func newFakeMemberRepo(members ...*entity.Member) *fakeMemberRepo {
	r := &fakeMemberRepo{members: make(map[uint]*entity.Member)}
	for _, m := range members {
		r.members[m.UserID] = m
	}
	return r
}

func (r *fakeMemberRepo) GetByUserID(ctx context.Context, userID uint) (*entity.Member, error) {
	m, ok := r.members[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *m
	return &copy, nil
}

func (r *fakeMemberRepo) ListWithExpiringMedical(ctx context.Context, before time.Time) ([]entity.Member, error) {
	var out []entity.Member
	for _, m := range r.members {
		if m.MedicalValidity != nil && !m.MedicalValidity.After(before) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMemberRepo) ListWithExpiringLicense(ctx context.Context, before time.Time) ([]entity.Member, error) {
	var out []entity.Member
	for _, m := range r.members {
		if m.LicenseValidity != nil && !m.LicenseValidity.After(before) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMemberRepo) ListNonInstructors(ctx context.Context) ([]entity.Member, error) {
	var out []entity.Member
	for _, m := range r.members {
		if !m.IsInstructor {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMemberRepo) ListWithBalanceAtMost(ctx context.Context, limit decimal.Decimal) ([]entity.Member, error) {
	var out []entity.Member
	for _, m := range r.members {
		if m.AccountBalance.LessThanOrEqual(limit) {
			out = append(out, *m)
		}
	}
	return out, nil
}

type fakeAircraftRepo struct {
	aircraft  map[uint]*entity.Aircraft
	deadlines []entity.MaintenanceDeadline
}

func newFakeAircraftRepo(aircraft ...*entity.Aircraft) *fakeAircraftRepo {
	r := &fakeAircraftRepo{aircraft: make(map[uint]*entity.Aircraft)}
	for _, a := range aircraft {
		r.aircraft[a.ID] = a
	}
	return r
}

func (r *fakeAircraftRepo) GetByID(ctx context.Context, id uint) (*entity.Aircraft, error) {
	a, ok := r.aircraft[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *a
	return &copy, nil
}

func (r *fakeAircraftRepo) ListDeadlines(ctx context.Context) ([]entity.MaintenanceDeadline, error) {
	out := make([]entity.MaintenanceDeadline, len(r.deadlines))
	for i, d := range r.deadlines {
		if a, ok := r.aircraft[d.AircraftID]; ok {
			d.Aircraft = a
		}
		out[i] = d
	}
	return out, nil
}

type fakeReservationRepo struct {
	mu           sync.Mutex
	nextID       uint
	reservations []entity.Reservation
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{nextID: 1}
}

func (r *fakeReservationRepo) overlapsLocked(aircraftID uint, start, end time.Time) bool {
	for i := range r.reservations {
		res := &r.reservations[i]
		if res.AircraftID == aircraftID && res.BlocksSlot() && res.Overlaps(start, end) {
			return true
		}
	}
	return false
}

func (r *fakeReservationRepo) HasOverlap(ctx context.Context, aircraftID uint, start, end time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.overlapsLocked(aircraftID, start, end), nil
}

func (r *fakeReservationRepo) CreateGuarded(ctx context.Context, res *entity.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.overlapsLocked(res.AircraftID, res.StartTime, res.EndTime) {
		return repository.ErrSlotConflict
	}
	res.ID = r.nextID
	r.nextID++
	r.reservations = append(r.reservations, *res)
	return nil
}

func (r *fakeReservationRepo) GetByID(ctx context.Context, id uint) (*entity.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.reservations {
		if r.reservations[i].ID == id {
			copy := r.reservations[i]
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeReservationRepo) Save(ctx context.Context, res *entity.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.reservations {
		if r.reservations[i].ID == res.ID {
			r.reservations[i] = *res
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeReservationRepo) ListForAircraft(ctx context.Context, aircraftID uint, from, to time.Time) ([]entity.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Reservation
	for i := range r.reservations {
		res := &r.reservations[i]
		if res.AircraftID == aircraftID && res.Overlaps(from, to) {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (r *fakeReservationRepo) ListAll(ctx context.Context) ([]entity.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Reservation, len(r.reservations))
	copy(out, r.reservations)
	return out, nil
}

type fakeAlertRepo struct {
	mu       sync.Mutex
	nextID   uint
	byKey    map[string]*entity.Alert
	failKeys map[string]error
}

func newFakeAlertRepo() *fakeAlertRepo {
	return &fakeAlertRepo{nextID: 1, byKey: make(map[string]*entity.Alert), failKeys: make(map[string]error)}
}

func (r *fakeAlertRepo) Upsert(ctx context.Context, a *entity.Alert) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.failKeys[a.UniqueKey]; ok {
		return false, err
	}
	if existing, ok := r.byKey[a.UniqueKey]; ok {
		existing.Severity = a.Severity
		existing.Title = a.Title
		existing.Message = a.Message
		existing.ExpiresAt = a.ExpiresAt
		existing.UpdatedAt = time.Now()
		a.ID = existing.ID
		a.Status = existing.Status
		return false, nil
	}
	a.ID = r.nextID
	r.nextID++
	a.CreatedAt = time.Now()
	copy := *a
	r.byKey[a.UniqueKey] = &copy
	return true, nil
}

func (r *fakeAlertRepo) Save(ctx context.Context, a *entity.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byKey[a.UniqueKey]
	if !ok {
		return repository.ErrNotFound
	}
	*existing = *a
	return nil
}

func (r *fakeAlertRepo) GetByID(ctx context.Context, id uint) (*entity.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byKey {
		if a.ID == id {
			copy := *a
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeAlertRepo) ListActiveByType(ctx context.Context, t entity.AlertType) ([]entity.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Alert
	for _, a := range r.byKey {
		if a.Type == t && a.Status == entity.AlertActive {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAlertRepo) ListActiveForUser(ctx context.Context, userID uint) ([]entity.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Alert
	for _, a := range r.byKey {
		if a.Status == entity.AlertActive && (a.UserID == nil || *a.UserID == userID) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAlertRepo) ListBlockingForUser(ctx context.Context, userID uint) ([]entity.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Alert
	for _, a := range r.byKey {
		if a.Status == entity.AlertActive && a.Severity == entity.SeverityBlocking && a.UserID != nil && *a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAlertRepo) ListPendingEmail(ctx context.Context) ([]entity.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Alert
	for _, a := range r.byKey {
		if a.Status == entity.AlertActive && !a.EmailSent {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAlertRepo) MarkEmailSent(ctx context.Context, id uint, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byKey {
		if a.ID == id {
			a.EmailSent = true
			a.EmailSentAt = &at
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeAlertRepo) get(key string) *entity.Alert {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byKey[key]
}

func (r *fakeAlertRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byKey)
}

type fakeConfigRepo struct {
	configs map[entity.AlertType]entity.AlertConfig
}

func newFakeConfigRepo() *fakeConfigRepo {
	return &fakeConfigRepo{configs: make(map[entity.AlertType]entity.AlertConfig)}
}

func (r *fakeConfigRepo) GetActive(ctx context.Context, t entity.AlertType) (*entity.AlertConfig, error) {
	cfg, ok := r.configs[t]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &cfg, nil
}

type fakeDecisionLog struct {
	mu      sync.Mutex
	records []entity.DecisionRecord
	failing bool
}

func (r *fakeDecisionLog) Insert(ctx context.Context, rec *entity.DecisionRecord) error {
	if r.failing {
		return fmt.Errorf("audit store unavailable")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, *rec)
	return nil
}

func (r *fakeDecisionLog) ListForUser(ctx context.Context, userID uint, limit int64) ([]entity.DecisionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.DecisionRecord
	for _, rec := range r.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}
