package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/hawkstone-global/hawkstone_backend/internal/api/http/handler"
)

func (r *Router) registerFormRoutes(api fiber.Router, h *handler.FormHandler) {
	api.Post("/contact", h.Contact)
	api.Post("/careers", h.Career)
}

func (r *Router) registerHealthRoutes(api fiber.Router) {
	api.Get("/health", handler.Health)
}
