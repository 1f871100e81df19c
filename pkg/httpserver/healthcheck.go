package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/logger"
)

// DefaultCheckTimeout bounds each readiness check.
const DefaultCheckTimeout = 2 * time.Second

// Check is one named readiness dependency, such as a database ping.
type Check struct {
	Name string
	Fn   func(context.Context) error
}

// HealthReport is the body written by HealthHandler.
type HealthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Health statuses.
const (
	StatusAlive    = "alive"
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
)

// HealthHandler serves liveness and readiness checks.
//
// Without checks it always answers 200 with status "alive". Otherwise every
// check runs with DefaultCheckTimeout; the handler answers 200 "ready" when
// all pass and 503 "not_ready" when any fails. The report names each check.
func HealthHandler(log *slog.Logger, checks ...Check) http.HandlerFunc {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if len(checks) == 0 {
			writeHealth(w, http.StatusOK, HealthReport{Status: StatusAlive})
			return
		}

		report := HealthReport{Status: StatusReady, Checks: make(map[string]string, len(checks))}
		status := http.StatusOK
		for _, c := range checks {
			ctx, cancel := context.WithTimeout(r.Context(), DefaultCheckTimeout)
			err := c.Fn(ctx)
			cancel()

			if err != nil {
				log.ErrorContext(r.Context(), "readiness check failed",
					logger.Component(c.Name), logger.Error(err))
				report.Checks[c.Name] = "down"
				report.Status = StatusNotReady
				status = http.StatusServiceUnavailable
				continue
			}
			report.Checks[c.Name] = "up"
		}

		writeHealth(w, status, report)
	}
}

func writeHealth(w http.ResponseWriter, status int, report HealthReport) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(report)
}
