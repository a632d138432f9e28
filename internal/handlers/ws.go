package handlers

import (
	"log"
	"net/http"

	"evalease-backend/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	hub *ws.Hub
}

func NewWSHandler(hub *ws.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket godoc
// @Summary      WebSocket connection for session events
// @Description  Receive mark and lifecycle events for a session in real time
// @Tags         websocket
// @Param        id path int true "Session ID"
// @Router       /ws/session/{id} [get]
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	h.hub.AddConnection(sessionID, conn)
	defer h.hub.RemoveConnection(sessionID, conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
