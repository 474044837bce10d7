package httptransport

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"

	"petitionsigner/internal/platform/health"
	"petitionsigner/internal/platform/metrics"
	"petitionsigner/internal/platform/middleware"
	"petitionsigner/pkg/platform/validation"
)

// NewRouter wires the petition API and the health probes behind the common
// middleware stack. Only the API group is bounded by timeout.
func NewRouter(h *Handler, probes *health.Handler, logger *slog.Logger, m *metrics.Metrics, timeout time.Duration) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger, m))

	if probes != nil {
		probes.Register(r)
	}

	r.Group(func(api chi.Router) {
		if timeout > 0 {
			api.Use(middleware.Timeout(timeout))
		}
		api.Use(middleware.ContentTypeJSON)
		api.Use(middleware.BodyLimit(validation.MaxBodySize))
		api.Use(middleware.SessionID)
		h.Register(api)
	})
	return r
}
