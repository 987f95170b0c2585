package httpserver

import (
	"net/http"
	"time"

	"github.com/fdg312/meal-planner/internal/metrics"
	"github.com/rs/zerolog"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// AccessLogMiddleware logs every request with zerolog and records it in
// the metrics registry under its route pattern.
func AccessLogMiddleware(logger zerolog.Logger, m *metrics.Registry, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		elapsed := time.Since(start)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(r.Method, route, rec.status, elapsed)

		event := logger.Info()
		if rec.status >= http.StatusInternalServerError {
			event = logger.Error()
		} else if r.URL.Path == "/healthz" || r.URL.Path == "/metrics" {
			event = logger.Debug()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("route", route).
			Int("status", rec.status).
			Int("bytes", rec.bytes).
			Dur("elapsed", elapsed).
			Msg("request")
	})
}
