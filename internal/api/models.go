package api

import (
	"beachvolley/internal/db"
	"beachvolley/internal/entities"
	apperrors "beachvolley/internal/errors"
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

type ReservationService interface {
	ListReservations(ctx context.Context, date string) ([]db.Reservation, error)
	CreateReservation(ctx context.Context, req *entities.ReservationRequest) (*db.Reservation, error)
	CancelReservation(ctx context.Context, id string) error
	ExportICS(ctx context.Context) (string, error)
}

type AvailabilityService interface {
	GetAvailability(ctx context.Context, date string) ([]entities.SlotView, error)
	BlockedForDate(ctx context.Context, date string) ([]entities.BlockedEntry, error)
}

type ConfigService interface {
	GetConfig(ctx context.Context) entities.ConfigResponse
	UpdateConfig(ctx context.Context, key, value string) error
}

type AdminService interface {
	UpdateSlotStatus(ctx context.Context, req entities.SlotStatusRequest) error
	ListBlockedSlots(ctx context.Context) ([]db.BlockedSlot, error)
	Stats(ctx context.Context) (*entities.StatsResponse, error)
}

type CreateReservationResponse struct {
	Success     bool            `json:"success"`
	ID          string          `json:"id"`
	Message     string          `json:"message"`
	Reservation *db.Reservation `json:"prenotazione"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type UpdateConfigRequest struct {
	Value string `json:"valore"`
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

// writeError maps classified errors to their status; anything else is a
// 500 with a generic message.
func writeError(w http.ResponseWriter, logger *zap.Logger, r *http.Request, err error) {
	code := apperrors.StatusCode(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		logger.Error("Request failed", zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Error(err))
		message = "Errore interno del server"
	}
	writeJSON(w, code, ErrorResponse{Error: message})
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.ErrValidation("Richiesta non valida")
	}
	return nil
}
