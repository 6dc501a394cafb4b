package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"aeroclub-service/internal/domain/entity"
	"aeroclub-service/internal/domain/repository"
	"aeroclub-service/internal/usecase"
	"aeroclub-service/pkg/logger"

	"github.com/go-chi/chi/v5"
	"github.com/jszwec/csvutil"
)

// Handler exposes the reservation and alerting core over HTTP. This is
// the trigger surface for the booking UI and the external cron; page
// rendering and authentication live elsewhere.
type Handler struct {
	reservations    *usecase.ReservationService
	alerts          *usecase.AlertGenerator
	alertRepo       repository.AlertRepository
	reservationRepo repository.ReservationRepository
	logger          logger.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	reservations *usecase.ReservationService,
	alerts *usecase.AlertGenerator,
	alertRepo repository.AlertRepository,
	reservationRepo repository.ReservationRepository,
	log logger.Logger,
) *Handler {
	return &Handler{
		reservations:    reservations,
		alerts:          alerts,
		alertRepo:       alertRepo,
		reservationRepo: reservationRepo,
		logger:          log,
	}
}

func (h *Handler) createReservation(w http.ResponseWriter, r *http.Request) {
	var payload bookingPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.UserID == 0 || payload.AircraftID == 0 {
		h.writeError(w, http.StatusBadRequest, "user_id and aircraft_id are required")
		return
	}

	res, err := h.reservations.Book(r.Context(), usecase.BookingRequest{
		UserID:           payload.UserID,
		AircraftID:       payload.AircraftID,
		StartTime:        payload.StartTime,
		EndTime:          payload.EndTime,
		Title:            payload.Title,
		Destination:      payload.Destination,
		IsInstruction:    payload.IsInstruction,
		InstructorID:     payload.InstructorID,
		PassengersCount:  payload.PassengersCount,
		ForceAllowed:     payload.ForceAllowed,
		ForceAllowedByID: payload.ForceAllowedByID,
		Notes:            payload.Notes,
	})
	if err != nil {
		var blocked *usecase.BlockedError
		switch {
		case errors.Is(err, usecase.ErrInvalidTimeRange):
			h.writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, repository.ErrSlotConflict):
			h.writeError(w, http.StatusConflict, err.Error())
		case errors.As(err, &blocked):
			h.writeJSON(w, http.StatusForbidden, map[string]interface{}{
				"error":    "reservation blocked",
				"blockers": blocked.Blockers,
			})
		case errors.Is(err, repository.ErrNotFound):
			h.writeError(w, http.StatusNotFound, "aircraft not found")
		default:
			h.logger.Error("Booking failed", "error", err)
			h.writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	h.writeJSON(w, http.StatusCreated, toReservationResponse(res))
}

func (h *Handler) listReservations(w http.ResponseWriter, r *http.Request) {
	aircraftID, err := queryUint(r, "aircraft_id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "aircraft_id is required")
		return
	}

	now := time.Now()
	from := queryTime(r, "from", now.AddDate(0, -1, 0))
	to := queryTime(r, "to", now.AddDate(0, 1, 0))

	reservations, err := h.reservations.ListForAircraft(r.Context(), aircraftID, from, to)
	if err != nil {
		h.logger.Error("Failed to list reservations", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]reservationResponse, 0, len(reservations))
	for i := range reservations {
		out = append(out, toReservationResponse(&reservations[i]))
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) cancelReservation(w http.ResponseWriter, r *http.Request) {
	h.mutateReservation(w, r, h.reservations.Cancel)
}

func (h *Handler) completeReservation(w http.ResponseWriter, r *http.Request) {
	h.mutateReservation(w, r, h.reservations.Complete)
}

func (h *Handler) mutateReservation(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id uint) error) {
	id, err := pathUint(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := op(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			h.writeError(w, http.StatusNotFound, "reservation not found")
		case errors.Is(err, usecase.ErrReservationImmutable):
			h.writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			h.writeError(w, http.StatusUnprocessableEntity, err.Error())
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// runAlerts is the cron trigger: runs every category scan, optionally
// followed by the resolution pass.
func (h *Handler) runAlerts(w http.ResponseWriter, r *http.Request) {
	report, err := h.alerts.RunAllChecks(r.Context())
	if err != nil {
		h.logger.Error("Alert scan failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "alert scan failed")
		return
	}

	resolved := 0
	if r.URL.Query().Get("resolve") == "true" {
		resolved, err = h.alerts.ResolveOutdated(r.Context())
		if err != nil {
			h.logger.Error("Alert resolution failed", "error", err)
		}
	}

	body := map[string]interface{}{
		"created":  report.Total,
		"resolved": resolved,
	}
	if r.URL.Query().Get("verbose") == "true" {
		body["by_category"] = report.Created
	}
	h.writeJSON(w, http.StatusOK, body)
}

func (h *Handler) listAlerts(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUint(r, "user_id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	alerts, err := h.alertRepo.ListActiveForUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list alerts", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.writeJSON(w, http.StatusOK, toAlertResponses(alerts))
}

func (h *Handler) acknowledgeAlert(w http.ResponseWriter, r *http.Request) {
	h.transitionAlert(w, r, (*entity.Alert).Acknowledge)
}

func (h *Handler) resolveAlert(w http.ResponseWriter, r *http.Request) {
	h.transitionAlert(w, r, (*entity.Alert).Resolve)
}

func (h *Handler) listPendingEmail(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.alertRepo.ListPendingEmail(r.Context())
	if err != nil {
		h.logger.Error("Failed to list pending email alerts", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.writeJSON(w, http.StatusOK, toAlertResponses(alerts))
}

// markEmailSent is called by the notification collaborator after
// delivery; the core never sends email itself.
func (h *Handler) markEmailSent(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.alertRepo.MarkEmailSent(r.Context(), id, time.Now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "alert not found")
			return
		}
		h.logger.Error("Failed to mark email sent", "alertId", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) exportReservationsCSV(w http.ResponseWriter, r *http.Request) {
	reservations, err := h.reservationRepo.ListAll(r.Context())
	if err != nil {
		h.logger.Error("Failed to export reservations", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	data, err := csvutil.Marshal(toReservationCSV(reservations))
	if err != nil {
		h.logger.Error("Failed to marshal CSV", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="reservations.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *Handler) transitionAlert(w http.ResponseWriter, r *http.Request, apply func(*entity.Alert, time.Time) error) {
	id, err := pathUint(r, "id")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	alert, err := h.alertRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "alert not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if err := apply(alert, time.Now()); err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := h.alertRepo.Save(r.Context(), alert); err != nil {
		h.logger.Error("Failed to save alert transition", "alertId", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.writeJSON(w, http.StatusOK, toAlertResponse(alert))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

func pathUint(r *http.Request, name string) (uint, error) {
	v, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	return uint(v), err
}

func queryUint(r *http.Request, name string) (uint, error) {
	v, err := strconv.ParseUint(r.URL.Query().Get(name), 10, 64)
	return uint(v), err
}

func queryTime(r *http.Request, name string, fallback time.Time) time.Time {
	if raw := r.URL.Query().Get(name); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t
		}
	}
	return fallback
}
