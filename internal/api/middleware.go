// Package api implements the catalog REST API using chi.
package api

import (
	"net/http"
	"strings"

	"github.com/ehclinic/medcat/internal/passkey"
)

// GateMiddleware returns middleware that admits only requests carrying a
// session token minted by a successful gate interaction
// ("Authorization: Bearer <token>"). Rejections include the gate state so
// the page knows whether to show the unlock or the create form.
func GateMiddleware(gate *passkey.Gate, sessions *Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			token := strings.TrimPrefix(auth, "Bearer ")
			if !strings.HasPrefix(auth, "Bearer ") || !sessions.Valid(token) {
				writeJSON(w, http.StatusUnauthorized, gateChallenge{
					Error: "locked",
					State: string(gate.State()),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type gateChallenge struct {
	Error string `json:"error"`
	State string `json:"state"`
}
