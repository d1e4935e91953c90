package handler

import (
	"context"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/photogallery-server/internal/logger"
)

// ServiceName is the health service name reported for the whole server.
// Each dependency is also reported under its own name.
const ServiceName = "photogallery"

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthReporter probes dependencies and publishes the result on the
// standard gRPC health service.
type HealthReporter struct {
	server       *health.Server
	dependencies map[string]Pinger
	interval     time.Duration
	timeout      time.Duration
	logger       *logger.Logger
}

// NewHealthReporter creates a reporter that probes every interval.
func NewHealthReporter(server *health.Server, dependencies map[string]Pinger, interval time.Duration, logger *logger.Logger) *HealthReporter {
	timeout := interval / 2
	if timeout <= 0 || timeout > 2*time.Second {
		timeout = 2 * time.Second
	}
	return &HealthReporter{
		server:       server,
		dependencies: dependencies,
		interval:     interval,
		timeout:      timeout,
		logger:       logger,
	}
}

// Probe pings every dependency once and updates the serving status.
// It returns false if any dependency is down.
func (h *HealthReporter) Probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	healthy := true
	for name, dep := range h.dependencies {
		status := healthpb.HealthCheckResponse_SERVING
		if err := dep.Ping(ctx); err != nil {
			h.logger.Warn("Health reporter: dependency down",
				"dependency", name,
				"error", err.Error())
			status = healthpb.HealthCheckResponse_NOT_SERVING
			healthy = false
		}
		h.server.SetServingStatus(name, status)
	}

	overall := healthpb.HealthCheckResponse_SERVING
	if !healthy {
		overall = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.server.SetServingStatus("", overall)
	h.server.SetServingStatus(ServiceName, overall)

	return healthy
}

// Run probes until ctx is cancelled, then marks every service as not serving.
func (h *HealthReporter) Run(ctx context.Context) error {
	h.Probe(ctx)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.server.Shutdown()
			return nil
		case <-ticker.C:
			h.Probe(ctx)
		}
	}
}
