package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/graphquery/pkg/driver"
)

// Build information - can be set at build time using ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	store driver.GraphStore
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(store driver.GraphStore) *HealthHandler {
	return &HealthHandler{store: store}
}

// HealthCheck handles GET /health - basic liveness check.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "graphquery",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
	})
}

// LivenessCheck handles GET /live - Kubernetes liveness probe.
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// ReadinessCheck handles GET /ready. Readiness requires the graph store to
// answer a lookup; the probe name is chosen so it never matches a real
// entity and the round-trip stays cheap.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	response := gin.H{
		"status":    "ready",
		"service":   "graphquery",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if h.store != nil {
		start := time.Now()
		_, err := h.store.FindEntitiesByName(ctx, "readiness-probe-nonexistent-entity", 1)
		duration := time.Since(start)

		if err != nil {
			response["status"] = "not ready"
			response["store"] = gin.H{
				"status":   "unhealthy",
				"error":    err.Error(),
				"duration": duration.String(),
			}
			c.JSON(http.StatusServiceUnavailable, response)
			return
		}
		response["store"] = gin.H{
			"status":   "healthy",
			"duration": duration.String(),
		}
	}

	c.JSON(http.StatusOK, response)
}

// VersionInfo handles GET /version.
func (h *HealthHandler) VersionInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version":    Version,
		"git_commit": GitCommit,
		"build_time": BuildTime,
		"go_version": GoVersion,
	})
}
