package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/believerchat/backend/internal/middleware"
	ws "github.com/believerchat/backend/internal/websocket"
	"github.com/believerchat/backend/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	hub     *ws.Hub
	handler ws.EventHandler
}

func NewWebSocketHandler(hub *ws.Hub, handler ws.EventHandler) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, handler: handler}
}

// HandleWebSocket upgrades the connection and binds it to the
// authenticated user for the lifetime of the pumps.
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	userID := middleware.MustUserID(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", "error", err, "user_id", userID)
		return
	}

	client := ws.NewClient(h.hub, conn, userID)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump(h.handler)
}
