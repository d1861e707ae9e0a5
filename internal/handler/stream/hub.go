package stream

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	xlogger "MacroPull/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const writeTimeout = 5 * time.Second

// Hub fans resolved indicator snapshots out to websocket subscribers.
// Dashboards connect once and receive the full indicator set after every
// value refresh instead of polling the REST surface.
type Hub struct {
	log      *xlogger.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*websocket.Conn]bool
	latest  []byte
}

func NewHub(log *xlogger.Logger) *Hub {
	return &Hub{
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]bool),
	}
}

func (h *Hub) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/stream", h.Serve)
}

// Serve upgrades the connection and replays the latest snapshot so a new
// subscriber does not wait a full refresh interval for its first frame.
func (h *Hub) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.clients[conn] = true
	replay := h.latest
	h.mu.Unlock()

	if replay != nil {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, replay); err != nil {
			h.drop(conn)
			return nil
		}
	}

	// Reader loop exists only to notice the peer going away.
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return nil
}

// Broadcast marshals the payload once and pushes it to every subscriber.
// Slow or dead connections are dropped rather than blocking the rest.
func (h *Hub) Broadcast(payload interface{}) {
	b, err := json.Marshal(payload)
	if err != nil {
		h.log.Warn("stream payload marshal failed", xlogger.Error(err))
		return
	}

	h.mu.Lock()
	h.latest = b
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
			h.drop(conn)
		}
	}
}

// Clients reports the current subscriber count.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
	h.mu.Unlock()
}
