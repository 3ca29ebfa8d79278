package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"noticeboard/backend/internal/models"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// WebSocketClient реалізує інтерфейс realtime.Client
type WebSocketClient struct {
	Viewer *models.Profile
	Conn   *websocket.Conn
	Hub    *Hub
	Send   chan models.ChangeEvent

	log       *zap.Logger
	closeOnce sync.Once
}

func NewWebSocketClient(viewer *models.Profile, conn *websocket.Conn, hub *Hub, log *zap.Logger) *WebSocketClient {
	return &WebSocketClient{
		Viewer: viewer,
		Conn:   conn,
		Hub:    hub,
		Send:   make(chan models.ChangeEvent, 16),
		log:    log,
	}
}

func (c *WebSocketClient) ViewerID() string                       { return c.Viewer.ID }
func (c *WebSocketClient) IsAdmin() bool                          { return c.Viewer.IsAdmin }
func (c *WebSocketClient) SendChannel() chan<- models.ChangeEvent { return c.Send }

// Run запускає 'pumps' для WebSocket
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close закриває Send канал (що зупинить writePump)
func (c *WebSocketClient) Close() {
	c.closeOnce.Do(func() { close(c.Send) })
}

// readPump лише підтримує з'єднання: глядачі нічого не надсилають, окрім pong та close
func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn("websocket read failed", zap.String("viewer_id", c.ViewerID()), zap.Error(err))
			}
			return
		}
	}
}

// writePump читає події з каналу Send і записує їх у WebSocket, по одному JSON на кадр
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Канал закрито хабом, закриваємо з'єднання WS
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(ev)
			if err != nil {
				c.log.Error("encode change event", zap.Error(err))
				continue
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			// Надсилаємо Ping для підтримки з'єднання активним
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
