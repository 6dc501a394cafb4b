package httpapi

import (
	"time"

	"aeroclub-service/internal/domain/entity"
)

// bookingPayload is the reservation creation request body.
type bookingPayload struct {
	UserID           uint      `json:"user_id"`
	AircraftID       uint      `json:"aircraft_id"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	Title            string    `json:"title"`
	Destination      string    `json:"destination"`
	IsInstruction    bool      `json:"is_instruction"`
	InstructorID     *uint     `json:"instructor_id"`
	PassengersCount  int       `json:"passengers_count"`
	ForceAllowed     bool      `json:"force_allowed"`
	ForceAllowedByID *uint     `json:"force_allowed_by"`
	Notes            string    `json:"notes"`
}

type reservationResponse struct {
	ID               uint      `json:"id"`
	Reference        string    `json:"reference"`
	UserID           uint      `json:"user_id"`
	AircraftID       uint      `json:"aircraft_id"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	Title            string    `json:"title"`
	Destination      string    `json:"destination,omitempty"`
	IsInstruction    bool      `json:"is_instruction"`
	PassengersCount  int       `json:"passengers_count"`
	Status           string    `json:"status"`
	EligibilityNotes string    `json:"eligibility_notes,omitempty"`
	ForceAllowed     bool      `json:"force_allowed"`
}

func toReservationResponse(r *entity.Reservation) reservationResponse {
	return reservationResponse{
		ID:               r.ID,
		Reference:        r.Reference,
		UserID:           r.UserID,
		AircraftID:       r.AircraftID,
		StartTime:        r.StartTime,
		EndTime:          r.EndTime,
		Title:            r.Title,
		Destination:      r.Destination,
		IsInstruction:    r.IsInstruction,
		PassengersCount:  r.PassengersCount,
		Status:           r.Status,
		EligibilityNotes: r.EligibilityNotes,
		ForceAllowed:     r.ForceAllowed,
	}
}

type alertResponse struct {
	ID          uint       `json:"id"`
	UserID      *uint      `json:"user_id,omitempty"`
	AircraftID  *uint      `json:"aircraft_id,omitempty"`
	Type        string     `json:"type"`
	Severity    string     `json:"severity"`
	Status      string     `json:"status"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	EmailSent   bool       `json:"email_sent"`
	EmailSentAt *time.Time `json:"email_sent_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toAlertResponse(a *entity.Alert) alertResponse {
	return alertResponse{
		ID:          a.ID,
		UserID:      a.UserID,
		AircraftID:  a.AircraftID,
		Type:        string(a.Type),
		Severity:    a.Severity.String(),
		Status:      a.Status,
		Title:       a.Title,
		Message:     a.Message,
		ExpiresAt:   a.ExpiresAt,
		EmailSent:   a.EmailSent,
		EmailSentAt: a.EmailSentAt,
		CreatedAt:   a.CreatedAt,
	}
}

func toAlertResponses(alerts []entity.Alert) []alertResponse {
	out := make([]alertResponse, 0, len(alerts))
	for i := range alerts {
		out = append(out, toAlertResponse(&alerts[i]))
	}
	return out
}

// reservationCSV is one row of the reservation ledger export.
type reservationCSV struct {
	Reference     string    `csv:"reference"`
	AircraftID    uint      `csv:"aircraft_id"`
	UserID        uint      `csv:"user_id"`
	StartTime     time.Time `csv:"start_time"`
	EndTime       time.Time `csv:"end_time"`
	Title         string    `csv:"title"`
	IsInstruction bool      `csv:"is_instruction"`
	Passengers    int       `csv:"passengers"`
	Status        string    `csv:"status"`
	ForceAllowed  bool      `csv:"force_allowed"`
}

func toReservationCSV(reservations []entity.Reservation) []reservationCSV {
	out := make([]reservationCSV, 0, len(reservations))
	for i := range reservations {
		r := &reservations[i]
		out = append(out, reservationCSV{
			Reference:     r.Reference,
			AircraftID:    r.AircraftID,
			UserID:        r.UserID,
			StartTime:     r.StartTime,
			EndTime:       r.EndTime,
			Title:         r.Title,
			IsInstruction: r.IsInstruction,
			Passengers:    r.PassengersCount,
			Status:        r.Status,
			ForceAllowed:  r.ForceAllowed,
		})
	}
	return out
}
