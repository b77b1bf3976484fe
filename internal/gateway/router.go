package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GateSentry/GateSentry/internal/common/logger"
	"github.com/GateSentry/GateSentry/internal/common/middleware"
)

// NewRouter wires the HTTP surface. Middleware runs in the same order the
// gate service's interceptor chain used to: recovery, tracing, access log,
// then rate limit and metrics on the API group.
func NewRouter(h *Handler, limiter middleware.RateLimiter, log logger.Logger, serviceName string) http.Handler {
	r := chi.NewRouter()

	r.Use(RecoveryMiddleware(log))
	r.Use(TracingMiddleware(serviceName))
	r.Use(AccessLogMiddleware(log))

	r.Get("/healthz", h.Healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(RateLimitMiddleware(limiter))
		r.Use(MetricsMiddleware)

		r.Post("/check-entry", h.CheckEntry)
		r.Post("/check-exit", h.CheckExit)
		r.Get("/history/{plateNumber}", h.History)

		r.Post("/vehicles", h.CreateVehicle)
		r.Get("/vehicles", h.ListVehicles)
		r.Delete("/vehicles/{plateNumber}", h.DeleteVehicle)

		r.Get("/logs", h.AllLogs)
	})

	return r
}
