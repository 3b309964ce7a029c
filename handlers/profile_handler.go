package handlers

import (
	"github.com/anjiri1684/wordpace/middleware"
	"github.com/anjiri1684/wordpace/models"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func (h *Handler) GetOverview(c *fiber.Ctx) error {
	return c.JSON(h.Engine.Overview())
}

func (h *Handler) GetProfile(c *fiber.Ctx) error {
	return c.JSON(h.Engine.Snapshot())
}

// ResetProfile wipes all progress. The client must confirm explicitly.
func (h *Handler) ResetProfile(c *fiber.Ctx) error {
	if c.Query("confirm") != "true" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Reset requires confirm=true"})
	}
	h.Engine.Reset()
	h.Log.Warn("profile reset", zap.String("device_id", middleware.DeviceID(c)))
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) UpdateSettings(c *fiber.Ctx) error {
	var req models.ReadingSettings
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	settings, ok := h.Engine.UpdateSettings(req)
	if !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":    "Premium settings require an active subscription or trial",
			"settings": settings,
		})
	}
	return c.JSON(settings)
}
