package main

import (
	"wayfinding/internal/gateway/proxy"

	"github.com/gofiber/fiber/v3"
)

func registerRoutes(api fiber.Router, converter, patients *proxy.Upstream) {
	// Converter Service
	conv := converter.Handler()
	api.Post("/convert", conv)
	api.Post("/render", conv)
	api.Get("/maps", conv)
	api.Put("/maps/:floor", conv)
	api.Get("/maps/:floor", conv)
	api.Get("/maps/:floor/svg", conv)
	api.Get("/maps/:floor/locate", conv)
	api.Get("/maps/:floor/route", conv)

	// Patients Service
	pat := patients.Handler()
	api.Get("/pacientes", pat)
	api.Get("/pacientes/:codigo", pat)
	api.Get("/pacientes/:codigo/destinos", pat)
}
