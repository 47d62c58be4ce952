// internal/infra/popup/hub.go
package popup

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Hub implements delivery.PopupSender over live websocket connections.
// Topics are recipient emails; a user may hold several connections (multiple
// tabs). Pushing to a topic nobody is attached to succeeds and goes nowhere,
// which matches the fire-and-forget popup contract.
type Hub struct {
	mu       sync.RWMutex
	conns    map[string]map[*websocket.Conn]struct{}
	upgrader websocket.Upgrader
	logger   *logrus.Logger
}

func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		conns: make(map[string]map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin checks belong to the surrounding HTTP layer.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Push writes the payload as one JSON message to every connection attached
// to topic. Dead connections are dropped from the hub instead of failing the
// push.
func (h *Hub) Push(ctx context.Context, topic string, payload any) error {
	h.mu.RLock()
	targets := make([]*websocket.Conn, 0, len(h.conns[topic]))
	for c := range h.conns[topic] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.WriteJSON(payload); err != nil {
			h.logger.WithError(err).WithField("topic", topic).Warn("dropping dead popup connection")
			h.remove(topic, c)
		}
	}
	return nil
}

// AttachHandler upgrades the request and subscribes the connection to the
// topic named by the ?email= query parameter until the peer goes away.
func (h *Hub) AttachHandler(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("email")
	if topic == "" {
		http.Error(w, "email query parameter required", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}

	h.add(topic, conn)
	go h.reapOnClose(topic, conn)
}

// Subscribers reports how many connections are attached to topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[topic])
}

func (h *Hub) add(topic string, c *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.conns[topic]; !ok {
		h.conns[topic] = make(map[*websocket.Conn]struct{})
	}
	h.conns[topic][c] = struct{}{}
	total := len(h.conns[topic])
	h.mu.Unlock()

	h.logger.WithFields(logrus.Fields{"topic": topic, "connections": total}).Debug("popup connection attached")
}

func (h *Hub) remove(topic string, c *websocket.Conn) {
	h.mu.Lock()
	if set, ok := h.conns[topic]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.conns, topic)
		}
	}
	h.mu.Unlock()

	_ = c.Close()
	h.logger.WithField("topic", topic).Debug("popup connection detached")
}

// reapOnClose drains inbound frames until the peer disconnects; the hub
// never reads application data from clients.
func (h *Hub) reapOnClose(topic string, c *websocket.Conn) {
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			h.remove(topic, c)
			return
		}
	}
}
