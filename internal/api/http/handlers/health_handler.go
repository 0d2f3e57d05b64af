package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-ticket-service/internal/observability"
	"github.com/spec-kit/support-ticket-service/internal/persistence"
)

// HealthHandler reports service liveness and dependency status.
type HealthHandler struct {
	postgres *persistence.Postgres
	redis    *persistence.Redis
	metrics  *observability.Metrics
	version  string
}

// NewHealthHandler constructs the handler.
func NewHealthHandler(postgres *persistence.Postgres, redis *persistence.Redis, metrics *observability.Metrics, version string) *HealthHandler {
	return &HealthHandler{postgres: postgres, redis: redis, metrics: metrics, version: version}
}

// Health handles GET /health.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	status := fiber.StatusOK
	deps := fiber.Map{}

	if err := h.postgres.Ping(c.Context()); err != nil {
		deps["postgres"] = "down"
		status = fiber.StatusServiceUnavailable
	} else {
		deps["postgres"] = "up"
	}

	if err := h.redis.Ping(c.Context()); err != nil {
		// redis is optional; ticket numbering falls back to sql
		deps["redis"] = "down"
	} else {
		deps["redis"] = "up"
	}

	return c.Status(status).JSON(fiber.Map{
		"status":       statusWord(status),
		"version":      h.version,
		"dependencies": deps,
		"metrics":      h.metrics.Snapshot(),
	})
}

func statusWord(status int) string {
	if status == fiber.StatusOK {
		return "ok"
	}
	return "degraded"
}
