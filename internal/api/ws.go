package api

import (
	"sync"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/rxguard/rxguard/internal/dispatch"
	"github.com/rxguard/rxguard/internal/metrics"
)

// eventHub fans notification events out to connected websocket clients. A
// slow client gets dropped rather than blocking the pipeline.
type eventHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]chan dispatch.NotificationEvent
	closed  bool
	logger  *zap.Logger
}

func newEventHub(logger *zap.Logger) *eventHub {
	return &eventHub{
		clients: make(map[*websocket.Conn]chan dispatch.NotificationEvent),
		logger:  logger,
	}
}

// Broadcast queues the event for every subscriber.
func (h *eventHub) Broadcast(event dispatch.NotificationEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn, ch := range h.clients {
		select {
		case ch <- event:
		default:
			h.logger.Warn("Dropping slow websocket subscriber")
			delete(h.clients, conn)
			close(ch)
		}
	}
}

func (h *eventHub) subscribe(conn *websocket.Conn) chan dispatch.NotificationEvent {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}

	ch := make(chan dispatch.NotificationEvent, 16)
	h.clients[conn] = ch
	metrics.Default().IncrementWSClients()
	return ch
}

func (h *eventHub) unsubscribe(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		close(ch)
		metrics.Default().DecrementWSClients()
	}
}

// Close drops every subscriber.
func (h *eventHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for conn, ch := range h.clients {
		delete(h.clients, conn)
		close(ch)
	}
}

func (s *Server) handleEventSocket(c *websocket.Conn) {
	defer c.Close()

	ch := s.hub.subscribe(c)
	if ch == nil {
		return
	}
	defer s.hub.unsubscribe(c)

	for event := range ch {
		if err := c.WriteJSON(event); err != nil {
			s.logger.Warn("WebSocket write error", zap.Error(err))
			return
		}
	}
}
