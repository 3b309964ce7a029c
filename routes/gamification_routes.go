package routes

import (
	"github.com/anjiri1684/wordpace/handlers"
	"github.com/gofiber/fiber/v2"
)

func GamificationRoutes(api fiber.Router, h *handlers.Handler, protected fiber.Handler) {
	badges := api.Group("/badges", protected)
	badges.Get("", h.ListBadges)
	badges.Get("/me", h.GetMyBadges)
	badges.Post("/evaluate", h.EvaluateBadges)

	api.Get("/rewards/me", protected, h.GetMyRewards)
}
