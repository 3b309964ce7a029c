package handlers

import (
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) GetStreak(c *fiber.Ctx) error {
	return c.JSON(h.Engine.StreakStatus())
}

func (h *Handler) ActivateFreeze(c *fiber.Ctx) error {
	if !h.Engine.ActivateFreeze() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "No freeze available to activate"})
	}
	return c.JSON(h.Engine.StreakStatus())
}

type RestoreStreakRequest struct {
	PurchasedCredit bool `json:"purchased_credit"`
}

func (h *Handler) RestoreStreak(c *fiber.Ctx) error {
	var req RestoreStreakRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
		}
	}
	res := h.Engine.RestoreStreak(req.PurchasedCredit)
	if !res.OK {
		return c.Status(fiber.StatusConflict).JSON(res)
	}
	return c.JSON(res)
}

func (h *Handler) DiscardStreak(c *fiber.Ctx) error {
	if !h.Engine.DiscardStreak() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "No pending streak break"})
	}
	return c.JSON(h.Engine.StreakStatus())
}
