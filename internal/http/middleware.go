package http

import (
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/auth-platform/user-service/internal/observability"
)

// Correlation header names. The inbound header is optional; the outbound
// header is set on every response, success or failure.
const (
	RequestIDHeader = "X-Request-Id"
	TraceIDHeader   = "X-Trace-Id"
)

// CorrelationMiddleware establishes the per-request correlation context. The
// id is taken from the inbound X-Request-Id header when present, otherwise
// freshly generated. It is bound into the request context and reflected in
// the X-Trace-Id response header before any handler code runs, so the header
// survives every exit path including panics.
func CorrelationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(RequestIDHeader)
		if traceID == "" {
			traceID = observability.GenerateCorrelationID()
		}

		w.Header().Set(TraceIDHeader, traceID)
		ctx := observability.WithCorrelationID(r.Context(), traceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LoggingMiddleware logs request start and completion with method, path,
// status, and wall-clock duration. Every line carries the correlation id
// bound by CorrelationMiddleware.
func LoggingMiddleware(logger *observability.Logger, metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLogger := logger.WithContext(r.Context())
			reqLogger.Event().
				Str("method", r.Method).
				Str("path", r.URL.RequestURI()).
				Msg("request started")

			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)
			elapsed := time.Since(start)

			reqLogger.Event().
				Str("method", r.Method).
				Str("path", r.URL.RequestURI()).
				Int("status", rw.status).
				Dur("duration", elapsed).
				Msg("request completed")

			if metrics != nil {
				metrics.RecordRequest(r.Method, r.URL.Path, strconv.Itoa(rw.status))
				metrics.RecordRequestDuration(r.Method, r.URL.Path, elapsed.Seconds())
			}
		})
	}
}

// RecoveryMiddleware converts panics into logged 500 responses. Full
// diagnostic detail goes to the log stream keyed by the correlation id; the
// caller sees a generic body. The X-Trace-Id header is already attached by
// the time a panic can occur.
func RecoveryMiddleware(logger *observability.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.WithContext(r.Context()).ErrorEvent().
						Interface("panic", rec).
						Str("method", r.Method).
						Str("path", r.URL.RequestURI()).
						Bytes("stack", debug.Stack()).
						Msg("request failed")
					WriteInternalError(w, r, "An internal error occurred")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
