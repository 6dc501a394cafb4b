package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"aeroclub-service/internal/domain/entity"
	"aeroclub-service/internal/domain/repository"
	"aeroclub-service/pkg/logger"
	"aeroclub-service/pkg/metrics"

	"github.com/google/uuid"
)

// ErrInvalidTimeRange is returned when a booking window is malformed.
var ErrInvalidTimeRange = errors.New("end time must be after start time")

// ErrReservationImmutable is returned when mutating a completed
// reservation.
var ErrReservationImmutable = errors.New("completed reservation cannot be modified")

// BlockedError rejects a booking on eligibility grounds. Overridable by
// an authorized actor, unlike slot conflicts.
type BlockedError struct {
	Blockers []string
}

func (e *BlockedError) Error() string {
	return "reservation blocked: " + strings.Join(e.Blockers, "; ")
}

// BookingRequest carries one reservation attempt.
type BookingRequest struct {
	UserID           uint
	AircraftID       uint
	StartTime        time.Time
	EndTime          time.Time
	Title            string
	Destination      string
	IsInstruction    bool
	InstructorID     *uint
	PassengersCount  int
	ForceAllowed     bool
	ForceAllowedByID *uint
	Notes            string
}

// overridden reports whether an explicit, authorized override was
// supplied. The flag alone is not enough.
func (r BookingRequest) overridden() bool {
	return r.ForceAllowed && r.ForceAllowedByID != nil
}

// ReservationService owns the reservation timeline per aircraft: it
// admits or rejects booking attempts.
type ReservationService struct {
	memberRepo      repository.MemberRepository
	aircraftRepo    repository.AircraftRepository
	reservationRepo repository.ReservationRepository
	decisionLog     repository.DecisionLogRepository
	metrics         *metrics.Metrics
	logger          logger.Logger
	now             func() time.Time
}

// NewReservationService creates a new reservation service.
func NewReservationService(
	memberRepo repository.MemberRepository,
	aircraftRepo repository.AircraftRepository,
	reservationRepo repository.ReservationRepository,
	decisionLog repository.DecisionLogRepository,
	m *metrics.Metrics,
	log logger.Logger,
) *ReservationService {
	return &ReservationService{
		memberRepo:      memberRepo,
		aircraftRepo:    aircraftRepo,
		reservationRepo: reservationRepo,
		decisionLog:     decisionLog,
		metrics:         m,
		logger:          log,
		now:             time.Now,
	}
}

// Book runs the full admission decision for one request. Structural and
// conflict errors are fatal; eligibility blockers reject unless the
// flight is an instruction flight or an authorized override is
// supplied. Admitted reservations are persisted directly in CONFIRMED
// status with the eligibility audit blob.
func (s *ReservationService) Book(ctx context.Context, req BookingRequest) (*entity.Reservation, error) {
	if !req.EndTime.After(req.StartTime) {
		s.reject(ctx, req, EligibilityResult{}, "invalid_range", ErrInvalidTimeRange.Error())
		return nil, ErrInvalidTimeRange
	}

	// Advisory fast path; CreateGuarded re-checks under the aircraft
	// row lock.
	overlap, err := s.reservationRepo.HasOverlap(ctx, req.AircraftID, req.StartTime, req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("overlap check: %w", err)
	}
	if overlap {
		s.reject(ctx, req, EligibilityResult{}, "conflict", repository.ErrSlotConflict.Error())
		return nil, repository.ErrSlotConflict
	}

	aircraft, err := s.aircraftRepo.GetByID(ctx, req.AircraftID)
	if err != nil {
		return nil, fmt.Errorf("load aircraft %d: %w", req.AircraftID, err)
	}

	member, err := s.memberRepo.GetByUserID(ctx, req.UserID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("load member %d: %w", req.UserID, err)
	}
	// A missing profile reaches the evaluator as nil and becomes a
	// blocker, not a crash.

	result := EvaluateEligibility(member, aircraft, FlightParams{
		IsInstruction:   req.IsInstruction,
		PassengersCount: req.PassengersCount,
	}, s.now())

	if !result.Admissible() && !req.IsInstruction && !req.overridden() {
		s.reject(ctx, req, result, "blocked", strings.Join(result.Blockers, "; "))
		return nil, &BlockedError{Blockers: result.Blockers}
	}

	res := &entity.Reservation{
		Reference:          uuid.NewString(),
		UserID:             req.UserID,
		AircraftID:         req.AircraftID,
		StartTime:          req.StartTime,
		EndTime:            req.EndTime,
		Title:              req.Title,
		Destination:        req.Destination,
		IsInstruction:      req.IsInstruction,
		InstructorID:       req.InstructorID,
		PassengersCount:    req.PassengersCount,
		Status:             entity.ReservationConfirmed,
		EligibilityChecked: true,
		EligibilityNotes:   strings.Join(result.Issues(), "\n"),
		ForceAllowed:       req.overridden(),
		ForceAllowedByID:   req.ForceAllowedByID,
		Notes:              req.Notes,
	}

	if err := s.reservationRepo.CreateGuarded(ctx, res); err != nil {
		if errors.Is(err, repository.ErrSlotConflict) {
			s.reject(ctx, req, result, "conflict", err.Error())
			return nil, err
		}
		s.metrics.ErrorsCount.WithLabelValues("reservation_create").Inc()
		return nil, fmt.Errorf("create reservation: %w", err)
	}

	s.metrics.ReservationsAdmitted.Inc()
	s.audit(ctx, req, result, res.Reference, true, "")
	s.logger.Info("Reservation admitted",
		"reference", res.Reference,
		"userId", req.UserID,
		"aircraftId", req.AircraftID,
		"overridden", res.ForceAllowed,
		"warnings", len(result.Warnings))

	return res, nil
}

// Cancel moves a reservation to CANCELLED. Completed reservations are
// immutable.
func (s *ReservationService) Cancel(ctx context.Context, id uint) error {
	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if res.Status == entity.ReservationCompleted {
		return ErrReservationImmutable
	}
	res.Status = entity.ReservationCancelled
	return s.reservationRepo.Save(ctx, res)
}

// Complete moves a confirmed reservation to its terminal COMPLETED
// state.
func (s *ReservationService) Complete(ctx context.Context, id uint) error {
	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if res.Status == entity.ReservationCompleted {
		return ErrReservationImmutable
	}
	if res.Status != entity.ReservationConfirmed {
		return fmt.Errorf("cannot complete reservation in status %s", res.Status)
	}
	res.Status = entity.ReservationCompleted
	return s.reservationRepo.Save(ctx, res)
}

// ListForAircraft returns the reservations of one aircraft in a window.
func (s *ReservationService) ListForAircraft(ctx context.Context, aircraftID uint, from, to time.Time) ([]entity.Reservation, error) {
	return s.reservationRepo.ListForAircraft(ctx, aircraftID, from, to)
}

func (s *ReservationService) reject(ctx context.Context, req BookingRequest, result EligibilityResult, reason, detail string) {
	s.metrics.ReservationsRejected.WithLabelValues(reason).Inc()
	s.audit(ctx, req, result, uuid.NewString(), false, detail)
}

// audit appends the decision to the archive. Audit failures are logged,
// never surfaced: the booking outcome stands.
func (s *ReservationService) audit(ctx context.Context, req BookingRequest, result EligibilityResult, reference string, admitted bool, reason string) {
	rec := &entity.DecisionRecord{
		Reference:  reference,
		UserID:     req.UserID,
		AircraftID: req.AircraftID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Admissible: result.Admissible(),
		Admitted:   admitted,
		Overridden: admitted && req.overridden() && !result.Admissible(),
		Blockers:   result.Blockers,
		Warnings:   result.Warnings,
		Reason:     reason,
		CreatedAt:  s.now(),
	}
	if err := s.decisionLog.Insert(ctx, rec); err != nil {
		s.metrics.ErrorsCount.WithLabelValues("decision_log").Inc()
		s.logger.Error("Failed to archive admission decision", "reference", reference, "error", err)
	}
}
