package routes

import (
	"github.com/anjiri1684/wordpace/handlers"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(api fiber.Router, h *handlers.Handler, protected fiber.Handler) {
	auth := api.Group("/auth")
	auth.Post("/device", h.PairDevice)
	auth.Get("/device", protected, h.CurrentDevice)
}
