// Package health serves liveness, readiness and status probes for the petition API.
package health

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"petitionsigner/pkg/platform/circuit"
	"petitionsigner/pkg/platform/httputil"
)

// Version is set at build time via ldflags.
var Version = "dev"

// ErrDegraded marks a check failure that is reported without failing readiness.
var ErrDegraded = errors.New("degraded")

// CheckFunc returns nil when the dependency it watches is usable.
type CheckFunc func() error

const (
	statusReady    = "ready"
	statusDegraded = "degraded"
	statusNotReady = "not_ready"
)

type Handler struct {
	started     time.Time
	environment string

	mu     sync.RWMutex
	checks map[string]CheckFunc
}

func New(environment string) *Handler {
	return &Handler{
		started:     time.Now(),
		environment: environment,
		checks:      map[string]CheckFunc{},
	}
}

// RegisterCheck adds or replaces a named readiness check.
func (h *Handler) RegisterCheck(name string, check CheckFunc) {
	h.mu.Lock()
	h.checks[name] = check
	h.mu.Unlock()
}

// BreakerCheck reports degraded while b is open. Calls still go through an
// open breaker, so the instance stays in rotation.
func BreakerCheck(b *circuit.Breaker) CheckFunc {
	return func() error {
		if !b.IsOpen() {
			return nil
		}
		return fmt.Errorf("%w: %s open since %s", ErrDegraded, b.Name(), b.Since().UTC().Format(time.RFC3339))
	}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HandleStatus)
		r.Get("/live", h.HandleLiveness)
		r.Get("/ready", h.HandleReadiness)
	})
}

type LivenessResponse struct {
	Status string `json:"status"`
}

func (h *Handler) HandleLiveness(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, LivenessResponse{Status: "alive"})
}

type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HandleReadiness answers 503 when any check fails outright.
func (h *Handler) HandleReadiness(w http.ResponseWriter, _ *http.Request) {
	resp := h.probe()
	code := http.StatusOK
	if resp.Status == statusNotReady {
		code = http.StatusServiceUnavailable
	}
	httputil.WriteJSON(w, code, resp)
}

func (h *Handler) probe() ReadinessResponse {
	h.mu.RLock()
	defer h.mu.RUnlock()

	resp := ReadinessResponse{Status: statusReady, Checks: make(map[string]string, len(h.checks))}
	for name, check := range h.checks {
		err := check()
		if err == nil {
			resp.Checks[name] = "up"
			continue
		}
		if errors.Is(err, ErrDegraded) {
			resp.Checks[name] = statusDegraded
			if resp.Status == statusReady {
				resp.Status = statusDegraded
			}
			continue
		}
		resp.Checks[name] = "down: " + err.Error()
		resp.Status = statusNotReady
	}
	return resp
}

type StatusResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Environment   string `json:"environment"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Timestamp     string `json:"timestamp"`
}

func (h *Handler) HandleStatus(w http.ResponseWriter, _ *http.Request) {
	now := time.Now()
	httputil.WriteJSON(w, http.StatusOK, StatusResponse{
		Status:        "healthy",
		Version:       Version,
		Environment:   h.environment,
		UptimeSeconds: int64(now.Sub(h.started).Seconds()),
		Timestamp:     now.UTC().Format(time.RFC3339),
	})
}
