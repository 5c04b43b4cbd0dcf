package handlers

import (
	"errors"
	"log"
	"strings"

	"wayfinding/internal/converter/graph"
	"wayfinding/internal/converter/locate"
	"wayfinding/internal/converter/mapper"
	"wayfinding/internal/converter/models"
	"wayfinding/internal/converter/storage"

	"github.com/gofiber/fiber/v3"
	"github.com/paulmach/orb/geojson"
)

// ============================================================
// Floor Maps Handlers
// ============================================================

// ListMaps возвращает список сохранённых этажей.
func (h *Handler) ListMaps(c fiber.Ctx) error {
	floors, err := h.maps.List()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"floors": floors})
}

// SaveMap сохраняет карту этажа. Тело - либо DXF в multipart поле "file",
// либо готовый GeoJSON (application/geo+json) с размеченными узлами и рёбрами.
func (h *Handler) SaveMap(c fiber.Ctx) error {
	floor := c.Params("floor")
	if _, err := h.maps.Path(floor); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var (
		fc    *geojson.FeatureCollection
		stats mapper.Stats
		err   error
	)
	if isGeoJSON(c.Get(fiber.HeaderContentType)) {
		fc, err = mapper.Decode(c.Body())
		if err != nil {
			log.Printf("[MAPS] rejected GeoJSON for %s: %v", floor, err)
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		stats = mapper.Summarize(fc)
	} else {
		fc, stats, err = h.convertUpload(c)
		if err != nil {
			return err
		}
	}

	path, err := h.maps.Save(floor, fc)
	if err != nil {
		log.Printf("[MAPS] save %s error: %v", floor, err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to save map")
	}

	log.Printf("[MAPS] Saved floor %s to %s", floor, path)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"floor": floor,
		"path":  path,
		"stats": stats,
	})
}

// GetMap отдаёт GeoJSON этажа как есть.
func (h *Handler) GetMap(c fiber.Ctx) error {
	data, err := h.maps.Raw(c.Params("floor"))
	if err != nil {
		return mapError(err)
	}
	c.Set("Content-Type", geoJSONContentType)
	return c.Send(data)
}

// GetMapSVG отдаёт SVG предпросмотр сохранённой карты.
func (h *Handler) GetMapSVG(c fiber.Ctx) error {
	fc, err := h.loadMap(c.Params("floor"))
	if err != nil {
		return err
	}
	return sendSVG(c, fc)
}

// Locate ищет узел маршрута по названию места (?q=Consultório 12).
func (h *Handler) Locate(c fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return fiber.NewError(fiber.StatusBadRequest, "query parameter q required")
	}

	fc, err := h.loadMap(c.Params("floor"))
	if err != nil {
		return err
	}

	match, ok := locate.Find(fc, query)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":     "location not found",
			"available": locate.SortedNames(fc),
		})
	}
	return c.JSON(match)
}

// Route строит маршрут между двумя местами этажа (?from=Recepção&to=Sala 3)
// по графу из nav_node и nav_edge.
func (h *Handler) Route(c fiber.Ctx) error {
	fromQuery, toQuery := c.Query("from"), c.Query("to")
	if fromQuery == "" || toQuery == "" {
		return fiber.NewError(fiber.StatusBadRequest, "query parameters from and to required")
	}

	fc, err := h.loadMap(c.Params("floor"))
	if err != nil {
		return err
	}

	from, ok := locate.Find(fc, fromQuery)
	if !ok {
		return locationNotFound(c, fc, fromQuery)
	}
	to, ok := locate.Find(fc, toQuery)
	if !ok {
		return locationNotFound(c, fc, toQuery)
	}
	if from.Node.Position == to.Node.Position {
		return fiber.NewError(fiber.StatusBadRequest, "from and to resolve to the same location")
	}

	g := graph.NewBuilder(graph.DefaultTolerance).Build(fc)
	line, length, err := g.Route(from.Node.Position, to.Node.Position)
	if err != nil {
		log.Printf("[ROUTE] %s -> %s: %v", from.Node.Name, to.Node.Name, err)
		if errors.Is(err, graph.ErrNoPath) || errors.Is(err, graph.ErrNoVertex) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	route := geojson.NewFeature(line)
	route.Properties["type"] = models.FeatureRoute
	route.Properties["from"] = from.Node.Name
	route.Properties["to"] = to.Node.Name
	route.Properties["distance"] = length

	data, err := route.MarshalJSON()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	log.Printf("[ROUTE] %s -> %s: %d points, distance %.2f", from.Node.Name, to.Node.Name, len(line), length)
	c.Set("Content-Type", geoJSONContentType)
	return c.Send(data)
}

func locationNotFound(c fiber.Ctx, fc *geojson.FeatureCollection, query string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error":     "location not found",
		"query":     query,
		"available": locate.SortedNames(fc),
	})
}

func isGeoJSON(contentType string) bool {
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	return mediaType == geoJSONContentType || mediaType == fiber.MIMEApplicationJSON
}

func (h *Handler) loadMap(floor string) (*geojson.FeatureCollection, error) {
	fc, err := h.maps.Load(floor)
	if err != nil {
		return nil, mapError(err)
	}
	return fc, nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, storage.ErrInvalidFloor):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrMapNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
