package handlers

import (
	"log"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Convert Handler
// ============================================================

// Convert конвертирует загруженный DXF в GeoJSON без сохранения.
func (h *Handler) Convert(c fiber.Ctx) error {
	log.Printf("[CONVERTER] Received request")
	log.Printf("[CONVERTER] Content-Type: %s", c.Get("Content-Type"))
	log.Printf("[CONVERTER] Content-Length: %d", len(c.Body()))

	fc, stats, err := h.convertUpload(c)
	if err != nil {
		return err
	}

	setStatsHeaders(c, stats)
	return sendGeoJSON(c, fc)
}
