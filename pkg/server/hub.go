// Package server exposes the daemon HTTP API and the WebSocket stream of
// translation events.
package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/traylingo/traylingo/pkg/models"
	"github.com/traylingo/traylingo/pkg/translate"
)

// Envelope is the wire format for all WebSocket messages. Payload fields
// are populated per event type; SessionID is always set.
type Envelope struct {
	Type      string               `json:"type"`
	SessionID string               `json:"session_id"`
	Text      string               `json:"text,omitempty"`
	Usage     *models.UsagePayload `json:"usage,omitempty"`
	Error     *translate.Error     `json:"error,omitempty"`
	Timestamp time.Time            `json:"timestamp"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub manages connected WebSocket clients and fans translation events out
// to all of them. It implements translate.Emitter.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*wsClient]struct{}
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *wsClient
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*wsClient]struct{}),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *wsClient, 8),
		unregister: make(chan *wsClient, 8),
	}
}

// Run starts the hub event loop. Must be run in a goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()
		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
		case msg := <-h.broadcast:
			h.mu.RLock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// Drop slow clients.
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast sends an Envelope to all connected clients. The send blocks
// until the run loop accepts it: events of one session must arrive complete
// and in order, so a burst past the channel buffer waits instead of losing
// a terminal done or usage message. Slow individual clients are still
// dropped per connection in the run loop.
func (h *Hub) Broadcast(msg Envelope) {
	msg.Timestamp = time.Now().UTC()
	b, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.broadcast <- b
}

// Chunk implements translate.Emitter.
func (h *Hub) Chunk(sessionID, text string) {
	h.Broadcast(Envelope{Type: models.EventChunk, SessionID: sessionID, Text: text})
}

// Usage implements translate.Emitter.
func (h *Hub) Usage(usage models.UsagePayload) {
	h.Broadcast(Envelope{Type: models.EventUsage, SessionID: usage.SessionID, Usage: &usage})
}

// Done implements translate.Emitter.
func (h *Hub) Done(sessionID string) {
	h.Broadcast(Envelope{Type: models.EventDone, SessionID: sessionID})
}

// Fail broadcasts a terminal error event for the session.
func (h *Hub) Fail(sessionID string, terr *translate.Error) {
	h.Broadcast(Envelope{Type: models.EventError, SessionID: sessionID, Error: terr})
}

// ServeWS handles the WebSocket upgrade and starts pump goroutines.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server.ServeWS: upgrade: %v", err)
		return
	}
	c := &wsClient{conn: conn, send: make(chan []byte, 64)}
	h.register <- c
	go h.writePump(c)
	go h.readPump(c)
}

func (h *Hub) writePump(c *wsClient) {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) readPump(c *wsClient) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// ClientCount returns the number of connected WebSocket clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
