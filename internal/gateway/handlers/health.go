package handlers

import (
	"context"
	"log"
	"time"

	"wayfinding/internal/gateway/proxy"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Health Check Handlers
// ============================================================

const pingTimeout = 2 * time.Second

// LivenessProbe проверяет, что приложение работает
func LivenessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// ReadinessProbe готов, когда все сервисы за шлюзом отвечают на /health/live.
func ReadinessProbe(upstreams ...*proxy.Upstream) fiber.Handler {
	return func(c fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), pingTimeout)
		defer cancel()

		services := fiber.Map{}
		ready := true
		for _, u := range upstreams {
			if err := u.Ping(ctx); err != nil {
				log.Printf("[HEALTH] %s not ready: %v", u.Name, err)
				services[u.Name] = "down"
				ready = false
				continue
			}
			services[u.Name] = "up"
		}

		if !ready {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":   "degraded",
				"services": services,
			})
		}
		return c.JSON(fiber.Map{
			"status":   "ready",
			"services": services,
		})
	}
}

// StartupProbe проверяет, что приложение успешно запустилось
func StartupProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "started",
	})
}
