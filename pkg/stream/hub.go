// Package stream broadcasts world snapshots to websocket clients and forwards
// the tuning changes they send back.
package stream

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	golog "github.com/tochemey/goakt/v3/log"
)

// UpdateFunc receives a tuning change sent by a client, keyed by config JSON name.
type UpdateFunc func(changes map[string]interface{}) error

// Hub is an http.Handler upgrading every request to a websocket.
type Hub struct {
	mu       sync.Mutex
	clients  map[*websocket.Conn]struct{}
	upgrader websocket.Upgrader
	logger   golog.Logger
	onUpdate UpdateFunc
}

// NewHub returns a hub. onUpdate may be nil, in which case client messages are ignored.
func NewHub(logger golog.Logger, onUpdate UpdateFunc) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger:   logger,
		onUpdate: onUpdate,
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast sends v as JSON to every client. Clients that fail are dropped.
func (h *Hub) Broadcast(v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		h.logger.Errorf("failed to marshal broadcast: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.logger.Debugf("failed to write to client %s: %v", conn.RemoteAddr(), err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnf("websocket upgrade failed: %v", err)
		return
	}
	h.add(conn)
	defer h.remove(conn)
	h.logger.Infof("stream client connected from %s", conn.RemoteAddr())

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			h.logger.Debugf("stream read from %s ended: %v", conn.RemoteAddr(), err)
			return
		}
		if h.onUpdate == nil {
			continue
		}

		var changes map[string]interface{}
		if err := json.Unmarshal(data, &changes); err != nil {
			h.reply(conn, err)
			continue
		}
		if err := h.onUpdate(changes); err != nil {
			h.reply(conn, err)
		}
	}
}

type errorMessage struct {
	Error string `json:"error"`
}

func (h *Hub) reply(conn *websocket.Conn, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; !ok {
		return
	}
	if werr := conn.WriteJSON(errorMessage{Error: err.Error()}); werr != nil {
		h.logger.Debugf("failed to reply to client %s: %v", conn.RemoteAddr(), werr)
	}
}

func (h *Hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = struct{}{}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
	conn.Close()
}
