package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"staffdir/internal/platform/middleware"
)

// Registrar mounts a group of routes.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter wires every route behind the shared middleware stack and exposes
// the Prometheus metrics gathered by gatherer at /metrics.
func NewRouter(logger *slog.Logger, timeout time.Duration, gatherer prometheus.Gatherer, registrars ...Registrar) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(timeout))

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	for _, reg := range registrars {
		reg.Register(r)
	}

	return r
}
