package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/cmmsmind/backend/internal/archive"
)

// Pinger checks the storage backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ArchiveChecker reports the health of the report archive.
type ArchiveChecker interface {
	Health(ctx context.Context) archive.HealthStatus
}

type componentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type healthResponse struct {
	Status     string                     `json:"status"`
	Time       time.Time                  `json:"time"`
	Components map[string]componentHealth `json:"components"`
}

type HealthHandler struct {
	base
	store   Pinger
	archive ArchiveChecker
}

// NewHealthHandler creates a health handler. archive may be nil.
func NewHealthHandler(store Pinger, archive ArchiveChecker, b base) *HealthHandler {
	return &HealthHandler{base: b, store: store, archive: archive}
}

// Check answers 503 when any component is unhealthy.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	resp := healthResponse{
		Status:     "healthy",
		Time:       time.Now().UTC(),
		Components: map[string]componentHealth{},
	}

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("storage health check failed", "error", err)
		resp.Components["storage"] = componentHealth{Status: "unhealthy", Message: err.Error()}
		resp.Status = "unhealthy"
	} else {
		resp.Components["storage"] = componentHealth{Status: "healthy"}
	}

	if h.archive != nil {
		hs := h.archive.Health(ctx)
		c := componentHealth{Status: "healthy", Message: hs.Message}
		if !hs.Healthy {
			c.Status = "unhealthy"
			resp.Status = "unhealthy"
		}
		resp.Components["archive"] = c
	}

	status := http.StatusOK
	if resp.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}
