package handlers

import (
	"github.com/anasyaks/arewabites/internal/ws"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ChatHandler struct {
	Hub *ws.Hub
	Log *zap.Logger
}

func NewChatHandler(hub *ws.Hub, log *zap.Logger) *ChatHandler {
	return &ChatHandler{Hub: hub, Log: log}
}

// WebSocketUpgradeMiddleware ensures the client is trying to upgrade to WebSocket
func (h *ChatHandler) WebSocketUpgradeMiddleware(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		c.Locals("allowed", true)
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handler returns the websocket handler function
func (h *ChatHandler) Handler() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		// Retrieve vendor_id from Locals (set by the auth middleware)
		vendorID, ok := c.Locals("vendor_id").(uint)
		if !ok || vendorID == 0 {
			h.Log.Warn("websocket connection without a valid vendor id")
			c.Close()
			return
		}

		client := &ws.Client{
			Hub:      h.Hub,
			Conn:     c,
			Send:     make(chan []byte, 256),
			VendorID: vendorID,
			Log:      h.Log,
		}

		client.Hub.Register <- client

		go client.WritePump()
		client.ReadPump()
	})
}
