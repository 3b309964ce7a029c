package handlers

import (
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type authMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// ServeEvents authenticates a websocket client with its first message and then
// hands the connection to the hub, which pushes engine events to it.
func (h *Handler) ServeEvents(c *websocketcontrib.Conn) {
	var msg authMessage
	if err := c.ReadJSON(&msg); err != nil || msg.Type != "auth" {
		h.Log.Warn("websocket auth failed: invalid or missing auth message", zap.Error(err))
		_ = c.WriteJSON(fiber.Map{"error": "Invalid or missing auth message"})
		c.Close()
		return
	}
	if _, err := h.Auth.Parse(msg.Token); err != nil {
		h.Log.Warn("websocket auth failed: invalid token")
		_ = c.WriteJSON(fiber.Map{"error": "Invalid token"})
		c.Close()
		return
	}
	h.Hub.Serve(c)
}
