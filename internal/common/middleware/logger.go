package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

// ============================================================
// Logger Middleware
// ============================================================

// Logger пишет строку на каждый запрос с идентификатором запроса.
// Пробы /health/* не логируются.
func Logger() fiber.Handler {
	return logger.New(logger.Config{
		Next:       skipHealth,
		Format:     "[${time}] ${status} - ${latency} ${method} ${path} | req=${locals:" + requestIDKey + "} | ${bytesReceived}B in, ${bytesSent}B out\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	})
}

func skipHealth(c fiber.Ctx) bool {
	return strings.HasPrefix(c.Path(), "/health/")
}
