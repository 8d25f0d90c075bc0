package httpserver

import (
	"context"
	"net/http"
	"time"
)

// DBCheck pings the backing store; nil means no store is wired.
type DBCheck func(ctx context.Context) error

// ReadyzHandler reports readiness of backing services.
func (s *Server) ReadyzHandler(dbCheck DBCheck) http.HandlerFunc {
	type check struct {
		Name    string `json:"name"`
		OK      bool   `json:"ok"`
		Details string `json:"details,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		checks := make([]check, 0, 1)
		ready := true
		if dbCheck != nil {
			if err := dbCheck(ctx); err != nil {
				checks = append(checks, check{Name: "db", OK: false, Details: err.Error()})
				ready = false
			} else {
				checks = append(checks, check{Name: "db", OK: true})
			}
		}
		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, map[string]any{"ready": ready, "checks": checks})
	}
}
