package handlers

import (
	"log"

	"wayfinding/internal/converter/mapper"

	"github.com/gofiber/fiber/v3"
	"github.com/paulmach/orb/geojson"
)

// ============================================================
// Render Handler
// ============================================================

// Render рисует присланный GeoJSON в SVG для предпросмотра.
func (h *Handler) Render(c fiber.Ctx) error {
	log.Printf("[RENDER] Received request")
	log.Printf("[RENDER] Content-Length: %d", len(c.Body()))

	if len(c.Body()) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "body required")
	}

	fc, err := geojson.UnmarshalFeatureCollection(c.Body())
	if err != nil {
		log.Printf("[RENDER] Decode error: %v", err)
		return fiber.NewError(fiber.StatusBadRequest, "invalid GeoJSON payload")
	}

	return sendSVG(c, fc)
}

func sendSVG(c fiber.Ctx, fc *geojson.FeatureCollection) error {
	svg, err := mapper.NewRenderer().Render(fc)
	if err != nil {
		log.Printf("[RENDER] Render error: %v", err)
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}

	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(svg)
}
