package main

import (
	"fmt"
	"log"
	"time"

	"wayfinding/internal/common/config"
	"wayfinding/internal/common/middleware"
	"wayfinding/internal/gateway/handlers"
	"wayfinding/internal/gateway/proxy"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// API Gateway
// ============================================================

func main() {
	cfg := config.Load()

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		BodyLimit:    cfg.BodyLimit,
		AppName:      "API Gateway",
	})

	converter := proxy.New("converter", cfg.ConverterURL).Rewrite("/api/v1", "")
	patients := proxy.New("patients", cfg.PatientsURL).Rewrite("/api/v1", "/api")

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS(cfg.CORSOrigins...))

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", handlers.LivenessProbe)
	app.Get("/health/ready", handlers.ReadinessProbe(converter, patients))
	app.Get("/health/startup", handlers.StartupProbe)

	// ============================================================
	// Docs
	// ============================================================

	if docs, err := handlers.LoadDocs(cfg.DocsPath); err != nil {
		log.Printf("[GATEWAY] docs disabled: %v", err)
	} else {
		app.Get("/docs", docs.UI)
		app.Get("/docs/openapi.yaml", docs.YAML)
	}

	// ============================================================
	// API Routes
	// ============================================================

	api := app.Group("/api/v1")

	api.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Wayfinding API v1",
			"status":  "ok",
		})
	})

	// ============================================================
	// Service Routes (Proxy)
	// ============================================================

	registerRoutes(api, converter, patients)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting API Gateway on %s (env: %s)", addr, cfg.Environment)
	log.Printf("Proxying converter to %s, patients to %s", converter.URL, patients.URL)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
