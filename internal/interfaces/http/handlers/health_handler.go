package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Check probes one infrastructure dependency.
type Check struct {
	Name string
	Fn   func(ctx context.Context) error
}

// HealthHandler serves the Kubernetes-style liveness and readiness probes.
type HealthHandler struct {
	checks  []Check
	version string
	startAt time.Time
}

// NewHealthHandler creates a HealthHandler probing the given dependencies.
func NewHealthHandler(version string, checks ...Check) *HealthHandler {
	return &HealthHandler{
		checks:  checks,
		version: version,
		startAt: time.Now(),
	}
}

// ComponentCheck is the per-dependency result in the readiness body.
type ComponentCheck struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Liveness handles GET /healthz.  It never consults dependencies: the
// process being able to answer is the whole signal.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "alive",
		"version": h.version,
		"uptime":  time.Since(h.startAt).Truncate(time.Second).String(),
	})
}

// Readiness handles GET /readyz.  Any failing dependency turns the whole
// probe into a 503.
func (h *HealthHandler) Readiness(c *gin.Context) {
	if len(h.checks) == 0 {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	components := h.checkAll(ctx)

	ready := true
	for _, cc := range components {
		if cc.Status != "healthy" {
			ready = false
			break
		}
	}

	status := http.StatusOK
	label := "ready"
	if !ready {
		status = http.StatusServiceUnavailable
		label = "not_ready"
	}
	c.JSON(status, gin.H{
		"status":     label,
		"components": components,
	})
}

// checkAll runs every probe concurrently.
func (h *HealthHandler) checkAll(ctx context.Context) map[string]ComponentCheck {
	results := make(map[string]ComponentCheck, len(h.checks))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, check := range h.checks {
		wg.Add(1)
		go func(check Check) {
			defer wg.Done()

			start := time.Now()
			err := check.Fn(ctx)

			cc := ComponentCheck{
				Status:  "healthy",
				Latency: time.Since(start).Truncate(time.Microsecond).String(),
			}
			if err != nil {
				cc.Status = "unhealthy"
				cc.Error = err.Error()
			}

			mu.Lock()
			results[check.Name] = cc
			mu.Unlock()
		}(check)
	}

	wg.Wait()
	return results
}
