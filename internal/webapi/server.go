// Package webapi exposes the campaign orchestrator over JSON HTTP.
//
// Endpoints:
//
//	GET  /api/health               liveness and version
//	GET  /api/campaign             campaign snapshot
//	PUT  /api/campaign/request     set reference images and scene context
//	POST /api/campaign/generate    start plan generation
//	GET  /api/campaign/export      ZIP of plan, prompts and previews
//	POST /api/shots/{id}/preview   render (or retake) one shot's preview
//	GET  /api/credential           credential flag
//	POST /api/credential           connect an API key
//	GET  /api/notices              drain preview failure notices
package webapi

import (
	"context"
	"io"
	"net/http"

	"github.com/fpang/studio-lens/internal/auth"
	"github.com/fpang/studio-lens/internal/credential"
	"github.com/fpang/studio-lens/internal/studio"
	"github.com/klauspost/compress/gzhttp"
)

// maxRequestBytes bounds request bodies; two reference images as base64
// comfortably fit.
const maxRequestBytes = 40 << 20

// Options configures a Server.
type Options struct {
	// MaxReferenceDimension downscales uploaded reference images (0 disables).
	MaxReferenceDimension int
	// AllowedOrigins for CORS. Empty allows localhost only.
	AllowedOrigins []string
	// Wait makes generate and preview requests block until the backend call
	// settles. Needed where work cannot outlive the request, e.g. Lambda.
	Wait bool
	// MetricsOut receives per-request EMF documents when non-nil.
	MetricsOut io.Writer
	// Version is reported by /api/health.
	Version string
}

// Server holds the handlers' dependencies.
type Server struct {
	orch    *studio.Orchestrator
	gate    *credential.Gate
	keyring *auth.Keyring
	notices *NoticeBoard
	opts    Options
}

// New creates a Server. notices must be the notifier the orchestrator was
// built with.
func New(orch *studio.Orchestrator, gate *credential.Gate, keyring *auth.Keyring, notices *NoticeBoard, opts Options) *Server {
	return &Server{orch: orch, gate: gate, keyring: keyring, notices: notices, opts: opts}
}

// Handler returns the routed handler wrapped with logging, CORS and gzip.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/campaign", s.handleCampaign)
	mux.HandleFunc("PUT /api/campaign/request", s.handleSetRequest)
	mux.HandleFunc("POST /api/campaign/generate", s.handleGenerate)
	mux.HandleFunc("GET /api/campaign/export", s.handleExport)
	mux.HandleFunc("POST /api/shots/{id}/preview", s.handlePreview)
	mux.HandleFunc("GET /api/credential", s.handleCredential)
	mux.HandleFunc("POST /api/credential", s.handleConnect)
	mux.HandleFunc("GET /api/notices", s.handleNotices)

	var h http.Handler = gzhttp.GzipHandler(mux)
	if s.opts.MetricsOut != nil {
		h = withMetrics(s.opts.MetricsOut, h)
	}
	return withLogging(withCORS(s.opts.AllowedOrigins, h))
}

// backgroundContext detaches work started by a request from the request's
// cancellation.
func backgroundContext(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}
