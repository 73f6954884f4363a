package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health handles GET /healthz
func Health(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			log.Error().Err(err).Msg("Health check failed")
			respondJSON(w, map[string]string{"status": "unavailable"}, http.StatusServiceUnavailable)
			return
		}
		respondJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
	}
}
