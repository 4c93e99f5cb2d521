package observability

import (
	"context"
	"encoding/json"
	"net/http"
)

const (
	healthOK          = "ok"
	healthUnavailable = "unavailable"
)

// ReadyCheck returns nil when a subsystem can serve traffic.
type ReadyCheck func(ctx context.Context) error

// HealthHandler serves /healthz. It always answers 200 {"status":"ok"}.
func HealthHandler() http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		writeHealth(rw, http.StatusOK, healthOK, "")
	})
}

// ReadyHandler serves /readyz. The first failing check turns the answer into
// 503 {"status":"unavailable","reason":...}.
func ReadyHandler(checks ...ReadyCheck) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, hr *http.Request) {
		for _, check := range checks {
			err := check(hr.Context())
			if err != nil {
				writeHealth(rw, http.StatusServiceUnavailable, healthUnavailable, err.Error())

				return
			}
		}

		writeHealth(rw, http.StatusOK, healthOK, "")
	})
}

func writeHealth(rw http.ResponseWriter, code int, status, reason string) {
	body := map[string]string{"status": status}
	if reason != "" {
		body["reason"] = reason
	}

	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(code)

	err := json.NewEncoder(rw).Encode(body)
	if err != nil {
		return
	}
}
