package escalation

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Hub tracks the websocket connections of admins watching the
// escalation queue. One connection per admin; a reconnect replaces the
// old one.
type Hub struct {
	connections map[string]*websocket.Conn
	mutex       sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[string]*websocket.Conn),
	}
}

func (h *Hub) Register(adminID string, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if oldConn, exists := h.connections[adminID]; exists && oldConn != nil {
		_ = oldConn.Close()
	}

	h.connections[adminID] = conn
}

func (h *Hub) Unregister(adminID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if conn, exists := h.connections[adminID]; exists {
		if conn != nil {
			_ = conn.Close()
		}
		delete(h.connections, adminID)
	}
}

// Broadcast sends the event to every connected admin. Dead connections
// are dropped on write failure.
func (h *Hub) Broadcast(event FeedEvent) {
	h.mutex.RLock()
	conns := make(map[string]*websocket.Conn, len(h.connections))
	for id, conn := range h.connections {
		conns[id] = conn
	}
	h.mutex.RUnlock()

	for id, conn := range conns {
		if conn == nil {
			continue
		}
		if err := conn.WriteJSON(event); err != nil {
			h.Unregister(id)
		}
	}
}

func (h *Hub) OnlineCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.connections)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for id, conn := range h.connections {
		if conn != nil {
			_ = conn.Close()
		}
		delete(h.connections, id)
	}
}
