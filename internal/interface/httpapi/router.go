package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the HTTP routes
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/reservations", func(r chi.Router) {
			r.Post("/", h.createReservation)
			r.Get("/", h.listReservations)
			r.Post("/{id}/cancel", h.cancelReservation)
			r.Post("/{id}/complete", h.completeReservation)
		})

		r.Route("/alerts", func(r chi.Router) {
			r.Post("/run", h.runAlerts)
			r.Get("/", h.listAlerts)
			r.Get("/pending-email", h.listPendingEmail)
			r.Post("/{id}/acknowledge", h.acknowledgeAlert)
			r.Post("/{id}/resolve", h.resolveAlert)
			r.Post("/{id}/email-sent", h.markEmailSent)
		})

		r.Get("/exports/reservations.csv", h.exportReservationsCSV)
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})

	return r
}
