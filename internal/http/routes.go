// Package httpx exposes the alert dispatcher over HTTP.
package httpx

import (
	"log/slog"
	"net/http"

	"github.com/nerva-logistics/alertdispatch/internal/observability/metrics"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Alerts AlertService
	// Metrics enables /metrics and request instrumentation (optional).
	Metrics      *metrics.Prometheus
	MaxBodyBytes int64
	Logger       *slog.Logger
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	alerts := &AlertHandlers{Svc: services.Alerts, Logger: logger, MaxBodyBytes: services.MaxBodyBytes}
	mux.HandleFunc("POST /api/alerts", alerts.Create)
	mux.HandleFunc("GET /api/alerts/log", alerts.Log)
	mux.HandleFunc("GET /api/status", alerts.Status)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	if services.Metrics != nil {
		mux.Handle("GET /metrics", services.Metrics.Handler())
	}

	var handler http.Handler = mux
	handler = Instrument(services.Metrics)(handler)
	handler = Recover(logger)(handler)
	handler = Logging(logger)(handler)
	return handler
}
