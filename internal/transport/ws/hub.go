package ws

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans catalog events out to every subscribed connection
type Hub struct {
	conns map[*Connection]bool
	mu    sync.RWMutex
	log   logrus.FieldLogger

	// Channels for coordination
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan []byte
	done       chan struct{}
	closeOnce  sync.Once
}

// Connection represents a subscribed WebSocket client
type Connection struct {
	Send chan []byte
}

// NewConnection creates a connection with a buffered send queue
func NewConnection() *Connection {
	return &Connection{Send: make(chan []byte, 256)}
}

// NewHub creates a new WebSocket hub and starts its event loop
func NewHub(logger logrus.FieldLogger) *Hub {
	h := &Hub{
		conns:      make(map[*Connection]bool),
		log:        logger.WithField("component", "ws_hub"),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.conns[conn] = true
			h.mu.Unlock()
			h.log.WithField("subscribers", h.Len()).Debug("subscriber connected")

		case conn := <-h.unregister:
			h.mu.Lock()
			if h.conns[conn] {
				delete(h.conns, conn)
				close(conn.Send)
			}
			h.mu.Unlock()
			h.log.WithField("subscribers", h.Len()).Debug("subscriber disconnected")

		case data := <-h.broadcast:
			h.mu.RLock()
			for conn := range h.conns {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()

		case <-h.done:
			h.mu.Lock()
			for conn := range h.conns {
				delete(h.conns, conn)
				close(conn.Send)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Len returns the number of subscribed connections
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.done:
		close(conn.Send)
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Broadcast queues an event for every subscriber (implements service.Broadcaster).
// Events are dropped when the queue is full so writers never block on readers.
func (h *Hub) Broadcast(msgType string, payload interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		h.log.WithError(err).WithField("type", msgType).Error("failed to encode event")
		return
	}
	data, _ := json.Marshal(&Message{Type: msgType, Payload: raw})

	select {
	case h.broadcast <- data:
	case <-h.done:
	default:
		h.log.WithField("type", msgType).Warn("event queue full, dropping event")
	}
}

// Close stops the event loop and closes every subscriber
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}
