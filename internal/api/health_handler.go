package api

import (
	"net/http"
	"time"

	"github.com/phrazzld/users-api/internal/api/shared"
)

// HealthTimestampFormat is ISO-8601 in UTC with millisecond precision.
const HealthTimestampFormat = "2006-01-02T15:04:05.000Z07:00"

// HealthHandler answers liveness probes. It never touches the gateway.
type HealthHandler struct {
	now func() time.Time
}

// NewHealthHandler creates a HealthHandler using the wall clock.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{now: time.Now}
}

// Health handles GET /health requests
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: h.now().UTC().Format(HealthTimestampFormat),
	})
}
