// Package middleware holds the HTTP middleware shared by the daemon's routes.
package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	apperrors "whatsweb/internal/errors"
	"whatsweb/internal/metrics"
	"whatsweb/internal/tracing"
)

// RequestIDHeader carries the request id back to the caller.
const RequestIDHeader = "X-Request-Id"

// Observability wraps every request in a span, assigns a request id, records
// request metrics and logs completion at a level derived from the status.
func Observability(logger *logrus.Logger, registry *metrics.Registry) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			route := routeTemplate(r)

			ctx, span := tracing.StartSpan(r.Context(), "http.request",
				attribute.String("http.method", r.Method),
				attribute.String("http.route", route),
				attribute.String("client.address", clientIP(r)),
			)

			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = tracing.NewRequestID()
			}
			ctx = tracing.WithRequestID(ctx, requestID)
			w.Header().Set(RequestIDHeader, requestID)

			wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapper, r.WithContext(ctx))

			duration := time.Since(start)
			span.SetAttributes(
				attribute.Int("http.response.status_code", wrapper.statusCode),
				attribute.Int64("http.response.size", wrapper.responseSize),
			)
			var spanErr error
			if wrapper.statusCode >= 500 {
				spanErr = apperrors.New(apperrors.ErrCodeInternalError, http.StatusText(wrapper.statusCode))
			}
			tracing.EndSpan(span, spanErr)

			labels := map[string]string{
				"method":      r.Method,
				"endpoint":    route,
				"status_code": strconv.Itoa(wrapper.statusCode),
			}
			registry.Inc(metrics.HTTPRequests, labels)
			registry.Observe(metrics.HTTPRequestDuration, duration, map[string]string{
				"method":   r.Method,
				"endpoint": route,
			})

			level := logrus.InfoLevel
			switch {
			case wrapper.statusCode >= 500:
				level = logrus.ErrorLevel
			case wrapper.statusCode >= 400:
				level = logrus.WarnLevel
			case route == "/health" || route == "/metrics":
				level = logrus.DebugLevel
			}

			logger.WithFields(logrus.Fields{
				"request_id":  requestID,
				"trace_id":    tracing.TraceID(ctx),
				"method":      r.Method,
				"route":       route,
				"status_code": wrapper.statusCode,
				"duration_ms": duration.Milliseconds(),
				"remote_ip":   clientIP(r),
				"size":        wrapper.responseSize,
			}).Log(level, "HTTP request completed")
		})
	}
}

// RequireAPIKey rejects requests whose X-Api-Key header does not match key.
// An empty key disables the check.
func RequireAPIKey(key string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		if key == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get("X-Api-Key")
			if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				WriteError(w, r, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid api key").
					WithUserMessage("Missing or invalid API key"), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the standard error body. A zero status is derived from
// the error code.
func WriteError(w http.ResponseWriter, r *http.Request, err error, status int) {
	if status == 0 {
		status = apperrors.HTTPStatusCode(err)
	}
	WriteJSON(w, status, apperrors.ToHTTPResponse(err, tracing.RequestID(r.Context())))
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the
// connection's remote address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type responseWrapper struct {
	http.ResponseWriter
	statusCode   int
	responseSize int64
}

func (rw *responseWrapper) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *responseWrapper) Write(data []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(data)
	rw.responseSize += int64(n)
	return n, err
}
