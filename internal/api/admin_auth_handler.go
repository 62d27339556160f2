package api

import (
	"beachvolley/internal/service"
	"net/http"

	"go.uber.org/zap"
)

type AdminAuthHandler struct {
	service service.AdminAuthService
	logger  *zap.Logger
}

func NewAdminAuthHandler(svc service.AdminAuthService, logger *zap.Logger) *AdminAuthHandler {
	return &AdminAuthHandler{service: svc, logger: logger}
}

type LoginRequest struct {
	Password string `json:"password"`
}

type LoginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

func (h *AdminAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	token, err := h.service.Login(req.Password)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, LoginResponse{Success: false, Message: "Password non corretta"})
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{Success: true, Message: "Accesso autorizzato", Token: token})
}
