package ws

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"orderdesk/events"
	"orderdesk/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// OrderHub pushes order events to every connected order board (kitchen
// screens, waiter tablets). Clients only listen; anything they send is
// discarded.
type OrderHub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan events.OrderEvent
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{}
	mu         sync.Mutex
	log        *logger.Logger
}

func NewOrderHub(log *logger.Logger) *OrderHub {
	if log == nil {
		log = logger.Nop()
	}
	return &OrderHub{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan events.OrderEvent, 64),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run serves register/unregister/broadcast until ctx is cancelled, then
// closes every client.
func (h *OrderHub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			h.mu.Unlock()
			return

		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = true
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mu.Unlock()

		case ev := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(ev); err != nil {
					h.log.Warn("ws_broadcast", "", "ws write failed", slog.String("error", err.Error()))
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues ev for broadcast. A full backlog drops the event rather than
// stalling the request that produced it.
func (h *OrderHub) Publish(_ context.Context, ev events.OrderEvent) {
	select {
	case h.broadcast <- ev:
	default:
		h.log.Warn("ws_broadcast", "", "order board backlog full, event dropped",
			slog.Uint64("order_id", uint64(ev.OrderID)))
	}
}

// Clients reports how many boards are connected.
func (h *OrderHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WS route: /ws/orders
func (h *OrderHub) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("ws_upgrade", "", "ws upgrade failed", slog.String("error", err.Error()))
		return
	}

	select {
	case h.register <- conn:
	case <-h.done:
		conn.Close()
		return
	}
	go h.listen(conn)
}

// listen drains the connection so close frames are seen, then unregisters.
func (h *OrderHub) listen(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}
