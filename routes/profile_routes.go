package routes

import (
	"github.com/anjiri1684/wordpace/handlers"
	"github.com/gofiber/fiber/v2"
)

func ProfileRoutes(api fiber.Router, h *handlers.Handler, protected fiber.Handler) {
	api.Get("/overview", protected, h.GetOverview)

	profile := api.Group("/profile", protected)
	profile.Get("", h.GetProfile)
	profile.Delete("", h.ResetProfile)
	profile.Put("/settings", h.UpdateSettings)

	entitlement := api.Group("/entitlement", protected)
	entitlement.Get("", h.GetEntitlement)
	entitlement.Post("/trial", h.StartTrial)
}
