package api

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecotrace/ecotrace-server/internal/api/respond"
	"github.com/ecotrace/ecotrace-server/internal/store"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	store store.Store
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(s store.Store) *HealthHandler { return &HealthHandler{store: s} }

// global health flag (1 = healthy, 0 = unhealthy)
var healthyFlag atomic.Int32

func init() {
	healthyFlag.Store(1)
}

// StartHealthMonitor launches a background goroutine that probes the store
// every interval and updates the cached service health flag.
func StartHealthMonitor(ctx context.Context, s store.Store, interval time.Duration, log zerolog.Logger) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		prev := int32(1)
		probe := func() {
			pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := s.HealthPing(pctx)
			cancel()

			cur := int32(1)
			if err != nil {
				cur = 0
			}
			healthyFlag.Store(cur)
			if cur != prev {
				if cur == 1 {
					log.Info().Msg("service health: UP")
				} else {
					log.Error().Err(err).Msg("service health: DOWN")
				}
				prev = cur
			}
		}

		probe()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				probe()
			}
		}
	}()
}

// CheckHealth handles GET /api/health.
// Always returns 200; body reports healthy/unhealthy.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	status := "unhealthy"
	if healthyFlag.Load() == 1 {
		status = "healthy"
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// CheckStorageHealth handles GET /api/health/db with a live store ping.
func (h *HealthHandler) CheckStorageHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.store.HealthPing(ctx); err != nil {
		respond.WriteJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"status": "healthy"})
}
