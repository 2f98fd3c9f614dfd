// Package health provides backend health reporting and the metrics endpoint.
package health

import (
	"time"

	"github.com/vietddude/blockphantom/internal/infra/backend"
)

// SystemStatus represents the overall health state of the system or a component.
type SystemStatus string

const (
	StatusHealthy  SystemStatus = "healthy"
	StatusDegraded SystemStatus = "degraded"
	StatusCritical SystemStatus = "critical"
)

// Degraded thresholds for the backend.
const (
	degradedErrorRate = 0.2
	degradedLatency   = 5 * time.Second
)

// BackendSource exposes the backend client's health.
type BackendSource interface {
	Health() backend.HealthStatus
}

// HealthReport contains the full system health report.
type HealthReport struct {
	SystemStatus SystemStatus         `json:"system_status"`
	Backend      backend.HealthStatus `json:"backend"`
}

// Evaluate classifies a backend health snapshot.
func Evaluate(h backend.HealthStatus) SystemStatus {
	if !h.Available {
		return StatusCritical
	}
	if h.ErrorRate > degradedErrorRate || h.Latency > degradedLatency {
		return StatusDegraded
	}
	return StatusHealthy
}
