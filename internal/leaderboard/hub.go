package leaderboard

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 16
)

// Message is a frame on the live feed.
type Message struct {
	Type    string  `json:"type"` // "top" on connect, then "score" per accepted submission
	Entry   *Entry  `json:"entry,omitempty"`
	Entries []Entry `json:"entries,omitempty"`
}

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

// hub owns the subscriber set. Only the Run goroutine touches clients.
type hub struct {
	register   chan *subscriber
	unregister chan *subscriber
	broadcast  chan []byte
	done       chan struct{}
	clients    map[*subscriber]struct{}
}

func newHub() *hub {
	return &hub{
		register:   make(chan *subscriber),
		unregister: make(chan *subscriber),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		clients:    make(map[*subscriber]struct{}),
	}
}

func (h *hub) run(ctx context.Context) {
	defer func() {
		for c := range h.clients {
			close(c.send)
		}
		h.clients = nil
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// Slow reader; drop it rather than stall the feed.
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// join registers c; false when the hub has stopped.
func (h *hub) join(c *subscriber) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *hub) leave(c *subscriber) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *hub) publish(msg []byte) {
	select {
	case h.broadcast <- msg:
	case <-h.done:
	default:
	}
}

// writePump drains c.send to the connection until the hub closes it.
func (c *subscriber) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards client frames and returns when the peer goes away.
func (c *subscriber) readPump() {
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
