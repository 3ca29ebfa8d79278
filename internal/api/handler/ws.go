package handler

import (
	"net/http"

	"noticeboard/backend/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Дозволяє з'єднання з будь-якого домену. У продакшені налаштувати!
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket оновлює HTTP-з'єднання до WebSocket і підписує глядача на зміни дошки
func (h *Handler) ServeWebSocket(c *gin.Context) {
	viewer := currentViewer(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade вже відповів клієнту
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := realtime.NewWebSocketClient(viewer, conn, h.Hub, h.log)
	if !h.Hub.Register(client) {
		conn.Close()
		return
	}
	client.Run()
}
