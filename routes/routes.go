package routes

import (
	"github.com/anjiri1684/wordpace/handlers"
	"github.com/anjiri1684/wordpace/middleware"
	"github.com/gofiber/fiber/v2"
)

// Setup mounts every route under /api/v1.
func Setup(app *fiber.App, h *handlers.Handler) {
	api := app.Group("/api/v1")
	protected := middleware.Protected(h.Auth.JWTSecret)

	AuthRoutes(api, h, protected)
	ProfileRoutes(api, h, protected)
	ReadingRoutes(api, h, protected)
	QuotaRoutes(api, h, protected)
	GamificationRoutes(api, h, protected)
	PaymentRoutes(api, h, protected)
	EventRoutes(api, h)
}
