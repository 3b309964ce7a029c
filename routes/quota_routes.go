package routes

import (
	"github.com/anjiri1684/wordpace/handlers"
	"github.com/gofiber/fiber/v2"
)

func QuotaRoutes(api fiber.Router, h *handlers.Handler, protected fiber.Handler) {
	quotas := api.Group("/quotas", protected)
	quotas.Get("", h.ListQuotas)
	quotas.Get("/:feature", h.GetQuota)
	quotas.Post("/:feature/consume", h.ConsumeQuota)

	texts := api.Group("/texts", protected)
	texts.Get("", h.ListCustomTexts)
	texts.Post("", h.AddCustomText)

	paywall := api.Group("/paywall", protected)
	paywall.Get("", h.CanShowPrompt)
	paywall.Post("/shown", h.RecordPromptShown)
	paywall.Post("/dismissed", h.RecordPromptDismissed)
}
