package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/ahmadnadir/gasnadir/pkg/logger"
)

const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// CheckFunc pings one dependency
type CheckFunc func(ctx context.Context) error

// Component is a named dependency check. Required components gate
// readiness; optional ones only degrade the health report.
type Component struct {
	Name     string
	Check    CheckFunc
	Required bool
}

// Handler provides health check endpoints
type Handler struct {
	log         *logger.Logger
	components  []Component
	startTime   time.Time
	serviceName string
	version     string
	now         func() time.Time
}

// New creates a new health check handler
func New(serviceName, version string, components ...Component) *Handler {
	return &Handler{
		log:         logger.Get().With("component", "health"),
		components:  components,
		startTime:   time.Now(),
		serviceName: serviceName,
		version:     version,
		now:         time.Now,
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string                     `json:"status"`
	Service   string                     `json:"service"`
	Version   string                     `json:"version"`
	Uptime    string                     `json:"uptime"`
	Timestamp string                     `json:"timestamp"`
	Checks    map[string]ComponentHealth `json:"checks"`
}

// ComponentHealth represents health of a single component
type ComponentHealth struct {
	Status       string `json:"status"`
	Required     bool   `json:"required"`
	ResponseTime string `json:"response_time,omitempty"`
	Error        string `json:"error,omitempty"`
}

// HandleLiveness returns 200 OK while the process is running
func (h *Handler) HandleLiveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// HandleReadiness fails when any required component is down
func (h *Handler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := h.run(ctx)
	code := http.StatusOK
	if status.Status == StatusUnhealthy {
		code = http.StatusServiceUnavailable
		h.log.Warnw("Readiness check failed", "checks", status.Checks)
	}
	writeJSON(w, code, status)
}

// HandleHealth reports every component. Degraded still answers 200.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	status := h.run(ctx)
	code := http.StatusOK
	if status.Status == StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

func (h *Handler) run(ctx context.Context) HealthStatus {
	checks := make(map[string]ComponentHealth, len(h.components))
	overall := StatusHealthy

	for _, c := range h.components {
		res := h.check(ctx, c)
		checks[c.Name] = res
		if res.Status == StatusHealthy {
			continue
		}
		if c.Required {
			overall = StatusUnhealthy
		} else if overall == StatusHealthy {
			overall = StatusDegraded
		}
	}

	return HealthStatus{
		Status:    overall,
		Service:   h.serviceName,
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: h.now().Format(time.RFC3339),
		Checks:    checks,
	}
}

func (h *Handler) check(ctx context.Context, c Component) ComponentHealth {
	start := time.Now()
	err := c.Check(ctx)
	elapsed := time.Since(start)

	if err != nil {
		h.log.Errorw("Health check failed", "component", c.Name, "error", err, "elapsed", elapsed)
		return ComponentHealth{
			Status:       StatusUnhealthy,
			Required:     c.Required,
			ResponseTime: elapsed.String(),
			Error:        err.Error(),
		}
	}

	return ComponentHealth{
		Status:       StatusHealthy,
		Required:     c.Required,
		ResponseTime: elapsed.String(),
	}
}

// Names lists the registered components, sorted
func (h *Handler) Names() []string {
	names := make([]string, 0, len(h.components))
	for _, c := range h.components {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
