package events

import (
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vrulab/vru-validation/pkg/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// WebSocketHandler upgrades requests and streams hub events as JSON text
// frames. Each connection gets its own writer goroutine.
type WebSocketHandler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	metrics  *metrics.Metrics
	clients  atomic.Int64
	buffer   int
}

// NewWebSocketHandler creates a handler for hub. m may be nil.
func NewWebSocketHandler(hub *Hub, m *metrics.Metrics) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		metrics: m,
		buffer:  DefaultBuffer,
	}
}

// Clients returns the number of open connections
func (h *WebSocketHandler) Clients() int {
	return int(h.clients.Load())
}

func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	sub := h.hub.Subscribe(h.buffer)
	h.metrics.SetWebSocketClients(int(h.clients.Add(1)))
	defer func() {
		h.metrics.SetWebSocketClients(int(h.clients.Add(-1)))
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		writePump(conn, sub)
	}()

	readPump(conn)

	h.hub.Unsubscribe(sub)
	<-done
}

// readPump discards client messages until the connection fails
func readPump(conn *websocket.Conn) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump sends envelopes until the subscription is closed
func writePump(conn *websocket.Conn, sub *Subscription) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case env, ok := <-sub.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := conn.WriteJSON(env); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
