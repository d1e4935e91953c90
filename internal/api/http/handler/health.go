package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/photogallery-server/internal/logger"
)

const readinessTimeout = 2 * time.Second

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Health serves liveness and readiness probes.
type Health struct {
	dependencies map[string]Pinger
	logger       *logger.Logger
}

// NewHealth creates probes that check the given dependencies on readiness.
func NewHealth(dependencies map[string]Pinger, logger *logger.Logger) *Health {
	return &Health{dependencies: dependencies, logger: logger}
}

func (h *Health) Liveness(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "ok",
	})
}

// Readiness pings every dependency and answers 503 if any is down.
func (h *Health) Readiness(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), readinessTimeout)
	defer cancel()

	failed := make([]string, 0)
	for name, dep := range h.dependencies {
		if err := dep.Ping(ctx); err != nil {
			h.logger.Warn("Health handler: dependency not ready",
				"dependency", name,
				"error", err.Error())
			failed = append(failed, name)
		}
	}

	if len(failed) > 0 {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":      "unavailable",
			"unavailable": failed,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "ready",
	})
}
