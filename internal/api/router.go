package api

import (
	"beachvolley/internal/auth"
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type RouterConfig struct {
	BasePath     string
	User         *UserHandler
	Admin        *AdminHandler
	Auth         *AdminAuthHandler
	Validator    auth.TokenValidator
	LoginLimiter *auth.RateLimiter
	// TrustProxy rewrites RemoteAddr from forwarded headers. Enable it only
	// behind a reverse proxy that overwrites them.
	TrustProxy bool
	Logger     *zap.Logger
}

// NewRouter mounts every endpoint under cfg.BasePath. The booking page only
// needs the config, availability and booking endpoints; everything else
// requires an admin token.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	api := r
	if base := strings.Trim(cfg.BasePath, "/"); base != "" {
		api = r.PathPrefix("/" + base).Subrouter()
	}

	// Public endpoints
	api.HandleFunc("/config", cfg.User.GetConfig).Methods(http.MethodGet)
	api.HandleFunc("/disponibilita/{data}", cfg.User.GetAvailability).Methods(http.MethodGet)
	api.HandleFunc("/prenotazioni", cfg.User.CreateReservation).Methods(http.MethodPost)
	api.Handle("/admin/login", cfg.LoginLimiter.Middleware(http.HandlerFunc(cfg.Auth.Login))).Methods(http.MethodPost)

	// Admin endpoints (protected)
	admin := auth.AdminAuthMiddleware(cfg.Validator)
	protect := func(h http.HandlerFunc) http.Handler { return admin(h) }
	api.Handle("/prenotazioni", protect(cfg.Admin.ListReservations)).Methods(http.MethodGet)
	api.Handle("/prenotazioni.ics", protect(cfg.Admin.ExportICS)).Methods(http.MethodGet)
	api.Handle("/prenotazioni/{id}", protect(cfg.Admin.CancelReservation)).Methods(http.MethodDelete)
	api.Handle("/disponibilita/update", protect(cfg.Admin.UpdateSlotStatus)).Methods(http.MethodPost)
	api.Handle("/blocked-slots", protect(cfg.Admin.ListBlockedSlots)).Methods(http.MethodGet)
	api.Handle("/config/{chiave}", protect(cfg.Admin.UpdateConfig)).Methods(http.MethodPut)
	api.Handle("/stats", protect(cfg.Admin.Stats)).Methods(http.MethodGet)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)
	httpLog := zap.NewStdLog(cfg.Logger.Named("http"))
	recovery := handlers.RecoveryHandler(handlers.RecoveryLogger(httpLog))
	var h http.Handler = handlers.CombinedLoggingHandler(httpLog.Writer(), cors(r))
	if cfg.TrustProxy {
		h = handlers.ProxyHeaders(h)
	}
	return recovery(h)
}
