package api

import (
	"beachvolley/internal/entities"
	apperrors "beachvolley/internal/errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type AdminHandler struct {
	Reservations ReservationService
	Availability AvailabilityService
	Admin        AdminService
	Config       ConfigService
	Logger       *zap.Logger
}

func NewAdminHandler(reservations ReservationService, availability AvailabilityService, admin AdminService, config ConfigService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{Reservations: reservations, Availability: availability, Admin: admin, Config: config, Logger: logger}
}

func (h *AdminHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	list, err := h.Reservations.ListReservations(r.Context(), r.URL.Query().Get("data"))
	if err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *AdminHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.Reservations.CancelReservation(r.Context(), id); err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Success: true, Message: "Prenotazione cancellata con successo"})
}

func (h *AdminHandler) UpdateSlotStatus(w http.ResponseWriter, r *http.Request) {
	var req entities.SlotStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	if strings.TrimSpace(req.Date) == "" || strings.TrimSpace(req.Time) == "" || strings.TrimSpace(req.Kind) == "" {
		writeError(w, h.Logger, r, apperrors.ErrValidation("Data, orario e tipo sono obbligatori"))
		return
	}
	if err := h.Admin.UpdateSlotStatus(r.Context(), req); err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{
		Success: true,
		Message: fmt.Sprintf("Orario %s aggiornato come %s", req.Time, req.Kind),
	})
}

// ListBlockedSlots returns the stored entries, or the merged local and
// remote set of one day when ?data= is given.
func (h *AdminHandler) ListBlockedSlots(w http.ResponseWriter, r *http.Request) {
	if date := r.URL.Query().Get("data"); date != "" {
		merged, err := h.Availability.BlockedForDate(r.Context(), date)
		if err != nil {
			writeError(w, h.Logger, r, err)
			return
		}
		writeJSON(w, http.StatusOK, merged)
		return
	}
	blocks, err := h.Admin.ListBlockedSlots(r.Context())
	if err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, blocks)
}

func (h *AdminHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req UpdateConfigRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	if err := h.Config.UpdateConfig(r.Context(), mux.Vars(r)["chiave"], req.Value); err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Success: true, Message: "Configurazione aggiornata"})
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Admin.Stats(r.Context())
	if err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) ExportICS(w http.ResponseWriter, r *http.Request) {
	feed, err := h.Reservations.ExportICS(r.Context())
	if err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="prenotazioni.ics"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(feed))
}
