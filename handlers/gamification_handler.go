package handlers

import (
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) ListBadges(c *fiber.Ctx) error {
	return c.JSON(h.Engine.BadgeCatalog())
}

func (h *Handler) GetMyBadges(c *fiber.Ctx) error {
	return c.JSON(h.Engine.UnlockedBadges())
}

func (h *Handler) GetMyRewards(c *fiber.Ctx) error {
	return c.JSON(h.Engine.UnlockedRewards())
}

// EvaluateBadges re-runs every rule, e.g. after a catalog update.
func (h *Handler) EvaluateBadges(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"new_badges": h.Engine.EvaluateBadges()})
}
