package handlers

import (
	"context"
	"net/http"
	"time"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

// NewHealthHandler builds the /healthz handler; db may be nil when no
// database is configured.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "database": "not configured"}
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			status["status"], status["database"] = "degraded", "unreachable"
			if err := writeJSON(w, http.StatusServiceUnavailable, envelope{Data: status}, nil); err != nil {
				serverErrorResponse(w, r, err)
			}
			return
		}
		status["database"] = "ok"
	}
	successResponse(w, r, http.StatusOK, "", status)
}
