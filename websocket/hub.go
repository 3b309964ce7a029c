package websocket

import (
	"sync"

	"github.com/anjiri1684/wordpace/services"
	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Hub fans engine events out to every connected UI client. It implements
// services.Notifier.
type Hub struct {
	clients    map[Conn]struct{}
	register   chan Conn
	unregister chan Conn
	broadcast  chan services.Event
	done       chan struct{}
	stopped    chan struct{}
	stopOnce   sync.Once
	log        *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[Conn]struct{}),
		register:   make(chan Conn),
		unregister: make(chan Conn),
		broadcast:  make(chan services.Event, 64),
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
		log:        log.Named("hub"),
	}
}

// Run serves registrations and broadcasts until Stop is called.
func (h *Hub) Run() {
	defer close(h.stopped)
	for {
		select {
		case conn := <-h.register:
			h.clients[conn] = struct{}{}
			h.log.Debug("client registered", zap.Int("clients", len(h.clients)))
		case conn := <-h.unregister:
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.log.Debug("client unregistered", zap.Int("clients", len(h.clients)))
		case ev := <-h.broadcast:
			for conn := range h.clients {
				if err := conn.WriteJSON(ev); err != nil {
					h.log.Warn("dropping client after failed write", zap.Error(err))
					conn.Close()
					delete(h.clients, conn)
				}
			}
		case <-h.done:
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			return
		}
	}
}

// Stop closes every client and waits for Run to return. Run must have been
// started.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
	<-h.stopped
}

// Notify queues ev for broadcast. It never blocks the engine; when the queue
// is full the event is dropped.
func (h *Hub) Notify(ev services.Event) {
	select {
	case h.broadcast <- ev:
	case <-h.done:
	default:
		h.log.Warn("event queue full, dropping event", zap.String("type", string(ev.Type)))
	}
}

func (h *Hub) Register(conn Conn) bool {
	select {
	case h.register <- conn:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(conn Conn) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Serve holds a client connection open until the peer goes away. Incoming
// messages are ignored; the channel is push-only.
func (h *Hub) Serve(c *websocket.Conn) {
	if !h.Register(c) {
		c.Close()
		return
	}
	defer h.Unregister(c)
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}
