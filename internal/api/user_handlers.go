package api

import (
	"beachvolley/internal/entities"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// UserHandler serves the public booking page.
type UserHandler struct {
	Reservations ReservationService
	Availability AvailabilityService
	Config       ConfigService
	Logger       *zap.Logger
}

func NewUserHandler(reservations ReservationService, availability AvailabilityService, config ConfigService, logger *zap.Logger) *UserHandler {
	return &UserHandler{Reservations: reservations, Availability: availability, Config: config, Logger: logger}
}

func (h *UserHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Config.GetConfig(r.Context()))
}

func (h *UserHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["data"]
	slots, err := h.Availability.GetAvailability(r.Context(), date)
	if err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, slots)
}

func (h *UserHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req entities.ReservationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	res, err := h.Reservations.CreateReservation(r.Context(), &req)
	if err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CreateReservationResponse{
		Success:     true,
		ID:          res.ID,
		Message:     "Prenotazione creata con successo",
		Reservation: res,
	})
}
