// Package api provides the HTTP handlers for the meeting planner API
package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

const readinessTimeout = 2 * time.Second

// HealthResponse represents the response for health check endpoints
type HealthResponse struct {
	Status string `json:"status"`
}

// Pinger is anything whose backend reachability can be checked
type Pinger interface {
	Ping(ctx context.Context) error
}

func writeHealth(w http.ResponseWriter, status int, state string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(HealthResponse{Status: state})
}

// HealthLiveHandler handles Kubernetes liveness probe requests
func HealthLiveHandler(w http.ResponseWriter, r *http.Request) {
	writeHealth(w, http.StatusOK, "UP")
}

// HealthReadyHandler handles Kubernetes readiness probe requests. The service
// is ready once its storage backend answers.
func HealthReadyHandler(backend Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		if err := backend.Ping(ctx); err != nil {
			log.Printf("Readiness check failed: %v", err)
			writeHealth(w, http.StatusServiceUnavailable, "DOWN")
			return
		}
		writeHealth(w, http.StatusOK, "UP")
	}
}
