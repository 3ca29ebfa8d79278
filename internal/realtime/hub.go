// Package realtime pushes row change notifications to connected viewers.
//
// Changes flow Postgres trigger -> PGListener -> Redis channel -> Hub (one per API instance) -> clients.
package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"noticeboard/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Hub fans change events out to the clients of this instance.
type Hub struct {
	RegisterCh   chan Client
	UnregisterCh chan Client
	EventsCh     chan models.ChangeEvent

	mu      sync.RWMutex
	clients map[Client]struct{}
	done    chan struct{}
	log     *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		EventsCh:     make(chan models.ChangeEvent, 64),
		clients:      make(map[Client]struct{}),
		done:         make(chan struct{}),
		log:          log,
	}
}

// ClientCount returns the number of registered clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Register hands c to the hub. It reports false when the hub is already stopped.
func (h *Hub) Register(c Client) bool {
	select {
	case h.RegisterCh <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes c. After shutdown it returns at once: Run has closed every client already.
func (h *Hub) Unregister(c Client) {
	select {
	case h.UnregisterCh <- c:
	case <-h.done:
	}
}

// Run serves registrations and events until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case c := <-h.RegisterCh:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()
			h.log.Debug("client registered", zap.String("viewer_id", c.ViewerID()))

		case c := <-h.UnregisterCh:
			h.remove(c)

		case ev := <-h.EventsCh:
			h.broadcast(ev)

		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				c.Close()
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) remove(c Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	c.Close()
	h.log.Debug("client unregistered", zap.String("viewer_id", c.ViewerID()))
}

// broadcast доставляє подію всім клієнтам; події звернень лише адміністраторам
func (h *Hub) broadcast(ev models.ChangeEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if ev.AdminOnly() && !c.IsAdmin() {
			continue
		}
		select {
		case c.SendChannel() <- ev:
		default:
			// Повільний клієнт: відключаємо, він перепідключиться і перечитає стан
			h.log.Warn("dropping slow client", zap.String("viewer_id", c.ViewerID()))
			delete(h.clients, c)
			c.Close()
		}
	}
}

// Listen reads change events published on Redis and hands them to Run.
// It returns when ctx is done or the message channel is closed.
func (h *Hub) Listen(ctx context.Context, messages <-chan *redis.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			var ev models.ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				h.log.Error("bad change event", zap.String("payload", msg.Payload), zap.Error(err))
				continue
			}
			select {
			case h.EventsCh <- ev:
			case <-ctx.Done():
				return
			}
		}
	}
}
