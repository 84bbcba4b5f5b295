package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/osse101/playcredits/internal/database"
	"github.com/osse101/playcredits/internal/logger"
)

// readinessTimeout bounds the database ping behind /readyz
const readinessTimeout = 2 * time.Second

const (
	StatusOK          = "ok"
	StatusUnavailable = "unavailable"
)

// HealthResponse is the body of the liveness and readiness probes.
// Checks is only filled by readiness.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HandleHealthz reports that the process is serving
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{Status: StatusOK})
	}
}

// HandleReadyz reports whether the ledger database answers within readinessTimeout
// @Summary Readiness check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /readyz [get]
func HandleReadyz(db database.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		resp := HealthResponse{Status: StatusOK, Checks: map[string]string{"database": StatusOK}}
		status := http.StatusOK

		if err := db.Ping(ctx); err != nil {
			logger.FromContext(r.Context()).Error(LogMsgReadinessFailed, "check", "database", "error", err)
			resp.Status = StatusUnavailable
			resp.Checks["database"] = StatusUnavailable
			status = http.StatusServiceUnavailable
		}

		respondJSON(w, status, resp)
	}
}
