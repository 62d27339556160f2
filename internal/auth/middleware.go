package auth

import (
	"encoding/json"
	"net/http"
	"strings"
)

type TokenValidator interface {
	ValidateToken(token string) error
}

// AdminAuthMiddleware admits requests carrying a valid admin token, either
// as a Bearer Authorization header or as a "token" query parameter for
// calendar clients that cannot set headers.
func AdminAuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" || validator.ValidateToken(token) != nil {
				writeJSONError(w, http.StatusUnauthorized, "Non autorizzato")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return r.URL.Query().Get("token")
}

func writeJSONError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
