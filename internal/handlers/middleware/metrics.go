package middleware

import (
	"net/http"
	"time"
)

type metricsCollector interface {
	RequestStarted()
	RequestFinished()
	ObserveRequest(method string, endpoint string, status int, elapsed time.Duration)
}

// MetricsMiddleware records request count, duration and requests in flight
// Requests are labeled with the matched route pattern, so it has to wrap the ServeMux directly
func MetricsMiddleware(m metricsCollector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseRecorder(w)

			m.RequestStarted()
			defer m.RequestFinished()

			next.ServeHTTP(rw, r)

			m.ObserveRequest(r.Method, r.Pattern, rw.status, time.Since(start))
		})
	}
}
