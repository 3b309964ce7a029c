package handlers

import (
	"github.com/anjiri1684/wordpace/services"
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) RecordReading(c *fiber.Ctx) error {
	var req services.ReadingSession
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(h.Engine.RecordReadingCompleted(req))
}

type ProgressRequest struct {
	Amount int `json:"amount" validate:"gt=0,lte=1000000"`
}

func (h *Handler) AddProgress(c *fiber.Ctx) error {
	var req ProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	badges := h.Engine.AddProgress(req.Amount)
	return c.JSON(fiber.Map{"level": h.Engine.ProgressToNextLevel(), "new_badges": badges})
}

func (h *Handler) GetLevel(c *fiber.Ctx) error {
	return c.JSON(h.Engine.ProgressToNextLevel())
}

type QuizResultRequest struct {
	Correct int `json:"correct" validate:"gte=0,ltefield=Total"`
	Total   int `json:"total" validate:"gt=0,lte=1000000"`
}

func (h *Handler) RecordQuiz(c *fiber.Ctx) error {
	var req QuizResultRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"new_badges": h.Engine.RecordQuizResult(req.Correct, req.Total)})
}

type PronunciationRequest struct {
	Score float64 `json:"score" validate:"gte=0,lte=1"`
}

func (h *Handler) RecordPronunciation(c *fiber.Ctx) error {
	var req PronunciationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"new_badges": h.Engine.RecordPronunciationAttempt(req.Score)})
}

type WordLookupRequest struct {
	Saved bool `json:"saved"`
}

func (h *Handler) RecordLookup(c *fiber.Ctx) error {
	var req WordLookupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	return c.JSON(fiber.Map{"new_badges": h.Engine.RecordWordLookup(req.Saved)})
}
