package api

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// EventType classifies a catalog change
type EventType string

const (
	EventCreated EventType = "created"
	EventDeleted EventType = "deleted"
)

// Event is one catalog change pushed to subscribed clients
type Event struct {
	ID       string    `json:"id"`
	Type     EventType `json:"type"`
	Entity   string    `json:"entity"` // "mod" or "map"
	EntityID int64     `json:"entity_id"`
	Name     string    `json:"name,omitempty"`
	Time     time.Time `json:"time"`
}

// EventHub broadcasts catalog events to connected websocket clients. Slow
// clients are dropped rather than blocking the broadcaster.
type EventHub struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
}

// NewEventHub creates an empty hub
func NewEventHub() *EventHub {
	return &EventHub{
		subscribers: make(map[chan Event]struct{}),
	}
}

// Broadcast delivers an event to every subscriber
func (h *EventHub) Broadcast(ev Event) {
	ev.ID = uuid.New().String()
	ev.Time = time.Now().UTC()

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers {
		select {
		case ch <- ev:
		default:
			// Subscriber buffer full; its write loop will close it
		}
	}
}

// subscribe registers a new event channel
func (h *EventHub) subscribe() chan Event {
	ch := make(chan Event, 16)
	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// unsubscribe removes an event channel
func (h *EventHub) unsubscribe(ch chan Event) {
	h.mu.Lock()
	delete(h.subscribers, ch)
	h.mu.Unlock()
}

// handleEventsWS upgrades the connection and streams catalog events until
// the client disconnects
func (s *Server) handleEventsWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()

	ch := s.events.subscribe()
	defer s.events.unsubscribe(ch)

	slog.Info("event feed connected", "remote_addr", r.RemoteAddr)

	done := make(chan struct{})

	// Read loop exists only to detect the client closing
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					slog.Debug("event feed read error", "error", err)
				}
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			slog.Info("event feed disconnected", "remote_addr", r.RemoteAddr)
			return
		case ev := <-ch:
			if err := conn.WriteJSON(ev); err != nil {
				slog.Debug("event feed write error", "error", err)
				return
			}
		}
	}
}
