package handlers

import (
	"github.com/anjiri1684/wordpace/models"
	"github.com/anjiri1684/wordpace/services"
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) ListQuotas(c *fiber.Ctx) error {
	return c.JSON(h.Engine.Quotas())
}

func featureParam(c *fiber.Ctx) (models.FeatureKey, bool) {
	f := models.FeatureKey(c.Params("feature"))
	return f, f.Valid()
}

func (h *Handler) GetQuota(c *fiber.Ctx) error {
	f, ok := featureParam(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Unknown feature"})
	}
	return c.JSON(services.QuotaStatus{Feature: f, Limit: services.DailyLimits[f], Remaining: h.Engine.Remaining(f)})
}

// ConsumeQuota records one use. The response tells the client whether it may
// proceed and whether a paywall prompt should follow.
func (h *Handler) ConsumeQuota(c *fiber.Ctx) error {
	f, ok := featureParam(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Unknown feature"})
	}
	if !h.Engine.Consume(f) {
		trigger := services.PromptTrigger{Name: "quota_" + string(f), Intentional: true}
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
			"error":       "Daily limit reached",
			"show_prompt": h.Engine.CanShowPrompt(trigger),
		})
	}
	return c.JSON(fiber.Map{"remaining": h.Engine.Remaining(f)})
}

type CustomTextRequest struct {
	Title   string `json:"title" validate:"max=200"`
	Content string `json:"content" validate:"required"`
}

func (h *Handler) ListCustomTexts(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"texts":      h.Engine.VisibleCustomTexts(),
		"can_upload": h.Engine.CanUpload(),
	})
}

func (h *Handler) AddCustomText(c *fiber.Ctx) error {
	var req CustomTextRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !h.Engine.CanUpload() {
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"error": "Free accounts hold one active custom text"})
	}
	text, ok := h.Engine.AddCustomText(req.Title, req.Content)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Text is empty"})
	}
	return c.Status(fiber.StatusCreated).JSON(text)
}

func (h *Handler) CanShowPrompt(c *fiber.Ctx) error {
	trigger := services.PromptTrigger{Name: c.Query("trigger"), Intentional: c.QueryBool("intentional")}
	if err := validate.Struct(trigger); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"show": h.Engine.CanShowPrompt(trigger)})
}

func (h *Handler) RecordPromptShown(c *fiber.Ctx) error {
	h.Engine.RecordPromptShown()
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) RecordPromptDismissed(c *fiber.Ctx) error {
	h.Engine.RecordPromptDismissed()
	return c.SendStatus(fiber.StatusNoContent)
}
