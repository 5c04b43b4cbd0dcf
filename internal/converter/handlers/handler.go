package handlers

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"wayfinding/internal/converter/mapper"
	"wayfinding/internal/converter/models"
	"wayfinding/internal/converter/parser"
	"wayfinding/internal/converter/storage"

	"github.com/gofiber/fiber/v3"
	"github.com/paulmach/orb/geojson"
)

// ============================================================
// Converter Handler
// ============================================================

const geoJSONContentType = "application/geo+json"

type Handler struct {
	maps     *storage.MapStorage
	defaults mapper.Options
}

// New создаёт обработчики; defaults используются, когда форма не задаёт параметры.
func New(maps *storage.MapStorage, defaults mapper.Options) *Handler {
	return &Handler{maps: maps, defaults: defaults}
}

// Register подключает маршруты конвертера к приложению или группе.
func (h *Handler) Register(r fiber.Router) {
	r.Post("/convert", h.Convert)
	r.Post("/render", h.Render)

	r.Get("/maps", h.ListMaps)
	r.Put("/maps/:floor", h.SaveMap)
	r.Get("/maps/:floor", h.GetMap)
	r.Get("/maps/:floor/svg", h.GetMapSVG)
	r.Get("/maps/:floor/locate", h.Locate)
	r.Get("/maps/:floor/route", h.Route)
}

// ============================================================
// Request helpers
// ============================================================

// convertUpload читает DXF из multipart поля "file" и конвертирует его.
func (h *Handler) convertUpload(c fiber.Ctx) (*geojson.FeatureCollection, mapper.Stats, error) {
	opts, err := h.options(c)
	if err != nil {
		return nil, mapper.Stats{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		log.Printf("[CONVERTER] FormFile error: %v", err)
		return nil, mapper.Stats{}, fiber.NewError(fiber.StatusBadRequest, "file required in multipart/form-data")
	}

	log.Printf("[CONVERTER] File received: %s, size: %d", fileHeader.Filename, fileHeader.Size)

	f, err := fileHeader.Open()
	if err != nil {
		return nil, mapper.Stats{}, fiber.NewError(fiber.StatusInternalServerError, "failed to open file")
	}
	defer f.Close()

	x := mapper.New(opts)
	fc, err := x.Convert(f)
	if err != nil {
		log.Printf("[CONVERTER] Conversion error: %v", err)
		if errors.Is(err, parser.ErrMalformed) || errors.Is(err, parser.ErrBinaryDXF) {
			return nil, mapper.Stats{}, fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		}
		return nil, mapper.Stats{}, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	stats := x.Stats()
	log.Printf("[CONVERTER] Conversion successful: walls=%d nav_areas=%d skipped=%d",
		stats.Walls, stats.NavAreas, stats.Skipped)
	return fc, stats, nil
}

// options разбирает scale, floor_layers и simplify из формы.
func (h *Handler) options(c fiber.Ctx) (mapper.Options, error) {
	opts := h.defaults

	if raw := strings.TrimSpace(c.FormValue("scale")); raw != "" {
		scale, err := strconv.ParseFloat(raw, 64)
		if err != nil || !isFinite(scale) || scale <= 0 {
			return opts, fmt.Errorf("scale must be a positive number")
		}
		opts.Scale = scale
	}

	if raw := c.FormValue("floor_layers"); raw != "" {
		var layers []string
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				layers = append(layers, name)
			}
		}
		opts.FloorLayers = models.NewLayerSet(layers...)
	}

	if raw := strings.TrimSpace(c.FormValue("simplify")); raw != "" {
		tolerance, err := strconv.ParseFloat(raw, 64)
		if err != nil || !isFinite(tolerance) || tolerance < 0 {
			return opts, fmt.Errorf("simplify must be a non-negative number")
		}
		opts.Simplify = tolerance
	}

	return opts, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// sendGeoJSON отдаёт коллекцию в том же виде, что пишет Extract.
func sendGeoJSON(c fiber.Ctx, fc *geojson.FeatureCollection) error {
	data, err := mapper.Marshal(fc)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	c.Set("Content-Type", geoJSONContentType)
	return c.Send(data)
}

func setStatsHeaders(c fiber.Ctx, stats mapper.Stats) {
	c.Set("X-Walls", strconv.Itoa(stats.Walls))
	c.Set("X-Nav-Areas", strconv.Itoa(stats.NavAreas))
	c.Set("X-Skipped", strconv.Itoa(stats.Skipped))
}

// ErrorHandler переводит ошибки обработчиков в JSON {"error": ...}.
func ErrorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
