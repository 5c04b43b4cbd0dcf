package main

import (
	"fmt"
	"log"
	"time"

	"wayfinding/internal/common/config"
	"wayfinding/internal/common/middleware"
	"wayfinding/internal/converter/handlers"
	"wayfinding/internal/converter/mapper"
	"wayfinding/internal/converter/models"
	"wayfinding/internal/converter/storage"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Converter Service
// ============================================================

func main() {
	cfg := config.LoadWithPort("3001")

	maps := storage.NewMapStorage(cfg.MapsDir)
	if err := maps.EnsureDir(); err != nil {
		log.Fatalf("maps dir: %v", err)
	}

	converter := handlers.New(maps, mapper.Options{
		Scale:       cfg.Scale,
		FloorLayers: models.NewLayerSet(cfg.FloorLayers...),
	})

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		BodyLimit:    cfg.BodyLimit,
		AppName:      "Converter Service",
		ErrorHandler: handlers.ErrorHandler,
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	app.Get("/health/ready", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ready"})
	})

	// ============================================================
	// Converter Routes
	// ============================================================

	converter.Register(app)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Converter Service on %s (env: %s, maps: %s, scale: %g)", addr, cfg.Environment, cfg.MapsDir, cfg.Scale)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
