package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/filesmanager/pkg/logger"
)

// Check reports whether one dependency is reachable.
type Check func(context.Context) error

// HealthCheckHandler answers liveness and readiness probes.
//
// Without checks it always returns 200 {"status":"alive"}. With checks every
// one runs against the request context; the body maps each name to its
// result and the status is 503 when any of them failed.
func HealthCheckHandler(log *slog.Logger, checks map[string]Check) http.HandlerFunc {
	if log == nil {
		log = logger.Discard()
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if len(checks) == 0 {
			w.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "alive"})
			return
		}

		status := http.StatusOK
		result := make(map[string]bool, len(checks))
		for name, check := range checks {
			err := check(r.Context())
			result[name] = err == nil
			if err != nil {
				status = http.StatusServiceUnavailable
				log.WarnContext(r.Context(), "readiness check failed",
					slog.String("check", name),
					logger.Error(err),
				)
			}
		}

		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(result)
	}
}
