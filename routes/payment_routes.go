package routes

import (
	"github.com/anjiri1684/wordpace/handlers"
	"github.com/gofiber/fiber/v2"
)

func PaymentRoutes(api fiber.Router, h *handlers.Handler, protected fiber.Handler) {
	api.Post("/webhooks/purchases", protected, h.HandlePurchaseWebhook)
}
