package handlers

import (
	"time"

	"github.com/anjiri1684/wordpace/middleware"
	"github.com/anjiri1684/wordpace/payments"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type EntitlementResponse struct {
	Premium      bool       `json:"premium"`
	Entitled     bool       `json:"entitled"`
	TrialExpired bool       `json:"trial_expired"`
	TrialEndsAt  *time.Time `json:"trial_ends_at,omitempty"`
}

// GetEntitlement also applies a pending trial lapse.
func (h *Handler) GetEntitlement(c *fiber.Ctx) error {
	resp := EntitlementResponse{TrialExpired: h.Engine.IsTrialExpired()}
	if end, ok := h.Engine.TrialEndsAt(); ok {
		resp.TrialEndsAt = &end
	}
	resp.Entitled = h.Engine.IsEntitled()
	resp.Premium = h.Engine.Snapshot().IsPremium
	return c.JSON(resp)
}

func (h *Handler) StartTrial(c *fiber.Ctx) error {
	if !h.Engine.StartTrial() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Trial already used or subscription active"})
	}
	end, _ := h.Engine.TrialEndsAt()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"trial_ends_at": end})
}

// HandlePurchaseWebhook applies a subscription provider event forwarded by the
// UI shell. Retried deliveries are acknowledged without being applied again.
func (h *Handler) HandlePurchaseWebhook(c *fiber.Ctx) error {
	var ev payments.Event
	if err := c.BodyParser(&ev); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse webhook payload"})
	}
	if err := validate.Struct(ev); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	out, applied := h.Payments.Process(ev)
	h.Log.Info("purchase webhook",
		zap.String("event_id", ev.ID),
		zap.String("device_id", middleware.DeviceID(c)),
		zap.Bool("applied", applied))
	if !applied {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Webhook already processed"})
	}
	return c.JSON(out)
}
