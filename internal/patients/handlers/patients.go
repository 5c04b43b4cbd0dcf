package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"wayfinding/internal/patients/models"
	"wayfinding/internal/patients/service"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Patients Handler
// ============================================================

type PatientsHandler struct {
	patients *service.Patients
}

func NewPatientsHandler(patients *service.Patients) *PatientsHandler {
	return &PatientsHandler{patients: patients}
}

func (h *PatientsHandler) Register(r fiber.Router) {
	r.Get("/api/pacientes", h.List)
	r.Get("/api/pacientes/:codigo", h.Get)
	r.Get("/api/pacientes/:codigo/destinos", h.Destinations)
}

// List отдаёт все записи таблицы.
func (h *PatientsHandler) List(c fiber.Ctx) error {
	records, err := h.patients.List(c.Context())
	if err != nil {
		log.Printf("[PATIENTS] List error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"detail": "Erro ao ler registros"})
	}
	if records == nil {
		records = []models.Record{}
	}
	return c.JSON(records)
}

// Get отдаёт все приёмы пациента по номеру карты.
func (h *PatientsHandler) Get(c fiber.Ctx) error {
	code, ok := recordNumber(c)
	if !ok {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"detail": "Código do paciente deve ser um número inteiro"})
	}

	records, err := h.patients.Appointments(c.Context(), code)
	if err != nil {
		return h.fail(c, code, err)
	}
	return c.JSON(records)
}

// Destinations отдаёт места приёмов пациента.
func (h *PatientsHandler) Destinations(c fiber.Ctx) error {
	code, ok := recordNumber(c)
	if !ok {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"detail": "Código do paciente deve ser um número inteiro"})
	}

	destinations, err := h.patients.Destinations(c.Context(), code)
	if err != nil {
		return h.fail(c, code, err)
	}
	return c.JSON(fiber.Map{"destinos": destinations})
}

func (h *PatientsHandler) fail(c fiber.Ctx, code int64, err error) error {
	switch {
	case errors.Is(err, service.ErrPatientNotFound):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"detail": "Paciente não encontrado"})
	case errors.Is(err, service.ErrNoDestination):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"detail": "Paciente não possui local/consulta definido"})
	default:
		log.Printf("[PATIENTS] Lookup %d error: %v", code, err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"detail": "Erro ao consultar paciente"})
	}
}

func recordNumber(c fiber.Ctx) (int64, bool) {
	code, err := strconv.ParseInt(c.Params("codigo"), 10, 64)
	return code, err == nil
}
