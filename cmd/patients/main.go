package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"wayfinding/internal/common/config"
	"wayfinding/internal/common/middleware"
	"wayfinding/internal/patients/handlers"
	"wayfinding/internal/patients/provider"
	"wayfinding/internal/patients/service"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Patients Service
// ============================================================

func main() {
	cfg := config.LoadWithPort("3002")

	source, closeFn, err := openProvider(cfg)
	if err != nil {
		log.Fatalf("patients provider: %v", err)
	}
	defer closeFn()

	patientsHandler := handlers.NewPatientsHandler(service.New(source))

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Patients Service",
	})

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

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	app.Get("/health/ready", func(c fiber.Ctx) error {
		if err := ready(c.Context(), source); err != nil {
			log.Printf("[PATIENTS] not ready: %v", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ready"})
	})

	// ============================================================
	// Patients Routes
	// ============================================================

	patientsHandler.Register(app)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Patients Service on %s (env: %s, provider: %s)", addr, cfg.Environment, cfg.PatientsProvider)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// ready - дешёвая проверка источника: COUNT(*) для SQLite.
// CSV целиком в памяти после загрузки, проверять нечего.
func ready(ctx context.Context, source provider.Provider) error {
	switch p := source.(type) {
	case *provider.SQLite:
		_, err := p.Count(ctx)
		return err
	default:
		return nil
	}
}

// openProvider выбирает источник записей. SQLite при пустой таблице
// заполняется из CSV, если файл есть.
func openProvider(cfg *config.Config) (provider.Provider, func(), error) {
	switch cfg.PatientsProvider {
	case "csv":
		p, err := provider.NewCSV(cfg.PatientsCSV)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("[PATIENTS] Loaded CSV %s", cfg.PatientsCSV)
		return p, func() {}, nil

	case "sqlite":
		db, err := provider.OpenSQLite(cfg.PatientsDB)
		if err != nil {
			return nil, nil, fmt.Errorf("open db: %w", err)
		}
		closeFn := func() { db.Close() }

		ctx := context.Background()
		p := provider.NewSQLite(db)
		if err := p.Init(ctx, cfg.MigrationsPath); err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("init db: %w", err)
		}
		if err := seedFromCSV(ctx, p, cfg.PatientsCSV); err != nil {
			closeFn()
			return nil, nil, err
		}
		return p, closeFn, nil

	default:
		return nil, nil, fmt.Errorf("unknown provider %q (want csv or sqlite)", cfg.PatientsProvider)
	}
}

func seedFromCSV(ctx context.Context, p *provider.SQLite, csvPath string) error {
	n, err := p.Count(ctx)
	if err != nil {
		return fmt.Errorf("count rows: %w", err)
	}
	if n > 0 || csvPath == "" {
		return nil
	}

	src, err := provider.NewCSV(csvPath)
	if err != nil {
		log.Printf("[PATIENTS] Seed skipped: %v", err)
		return nil
	}
	records, err := src.List(ctx)
	if err != nil {
		return err
	}
	if err := p.Seed(ctx, records); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	log.Printf("[PATIENTS] Seeded %d rows from %s", len(records), csvPath)
	return nil
}
