package routes

import (
	"github.com/anjiri1684/wordpace/handlers"
	"github.com/gofiber/fiber/v2"
)

func ReadingRoutes(api fiber.Router, h *handlers.Handler, protected fiber.Handler) {
	api.Post("/readings", protected, h.RecordReading)

	progress := api.Group("/progress", protected)
	progress.Get("", h.GetLevel)
	progress.Post("", h.AddProgress)

	practice := api.Group("/practice", protected)
	practice.Post("/quiz", h.RecordQuiz)
	practice.Post("/pronunciation", h.RecordPronunciation)
	practice.Post("/lookups", h.RecordLookup)

	streak := api.Group("/streak", protected)
	streak.Get("", h.GetStreak)
	streak.Post("/freeze", h.ActivateFreeze)
	streak.Post("/restore", h.RestoreStreak)
	streak.Post("/discard", h.DiscardStreak)
}
