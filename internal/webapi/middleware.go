package webapi

import (
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/fpang/studio-lens/internal/metrics"
	"github.com/rs/zerolog/log"
)

// statusRecorder captures the response status code.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(sr, r)
		if strings.HasPrefix(r.URL.Path, "/api/") {
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", sr.statusCode).
				Dur("duration", time.Since(start)).
				Msg("API request")
		}
	})
}

// withCORS allows the configured origins, or any localhost origin when none
// are configured.
func withCORS(allowed []string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && originAllowed(allowed, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func originAllowed(allowed []string, origin string) bool {
	if len(allowed) == 0 {
		return strings.HasPrefix(origin, "http://localhost:") || strings.HasPrefix(origin, "http://127.0.0.1:")
	}
	return slices.Contains(allowed, origin)
}

// withMetrics emits per-request EMF metrics keyed by the matched route
// pattern, which keeps shot ids out of the dimension values.
func withMetrics(out io.Writer, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(sr, r)

		endpoint := r.Pattern
		if endpoint == "" {
			endpoint = "unmatched"
		}
		metrics.New(metrics.Namespace, out).
			Dimension("Endpoint", endpoint).
			Metric("RequestLatencyMs", float64(time.Since(start).Milliseconds()), metrics.UnitMilliseconds).
			Count("RequestCount").
			Property("statusCode", sr.statusCode).
			Property("path", r.URL.Path).
			Flush()
	})
}

// WithOriginVerify rejects requests whose x-origin-verify header does not
// match secret. CloudFront injects the header, so direct API Gateway calls are
// blocked. An empty secret disables the check.
func WithOriginVerify(secret string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if secret == "" {
			next.ServeHTTP(w, r)
			return
		}
		if r.Header.Get("x-origin-verify") != secret {
			log.Warn().Str("path", r.URL.Path).Msg("Blocked request: missing or invalid x-origin-verify header")
			httpError(w, http.StatusForbidden, "forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}
