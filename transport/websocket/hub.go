package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/kayasax/Awale-sub000/game/config"
	"github.com/kayasax/Awale-sub000/game/protocol"
	"github.com/kayasax/Awale-sub000/transport/ratelimit"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Outbound buffer per connection; a client that falls this far behind
	// is dropped as a slow consumer.
	sendBufferSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		// TODO: Configure this for production
		return true
	},
}

// Client is one websocket connection. It implements session.Conn: Send
// never blocks, and a full buffer closes the connection instead of stalling
// a game or lobby broadcast.
type Client struct {
	hub        *Hub
	dispatcher *Dispatcher
	conn       *websocket.Conn
	send       chan []byte
	id         string
	bucket     *ratelimit.Bucket

	playerID chan string // capacity 1; holds the bound identity
}

// newClient builds a client for an upgraded connection.
func newClient(hub *Hub, dispatcher *Dispatcher, conn *websocket.Conn, cfg *config.Tuning) *Client {
	return &Client{
		hub:        hub,
		dispatcher: dispatcher,
		conn:       conn,
		send:       make(chan []byte, sendBufferSize),
		id:         uuid.NewString(),
		bucket:     ratelimit.NewBucket(cfg.RateLimitCapacity, cfg.RateLimitRefill()),
		playerID:   make(chan string, 1),
	}
}

// ID returns the transient connection id.
func (c *Client) ID() string { return c.id }

// Send marshals and queues a message without blocking. A full buffer means
// the peer cannot keep up: the message is dropped, the connection closed,
// and false returned.
func (c *Client) Send(msg protocol.ServerMessage) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[WS] conn=%s failed to marshal %s: %v", c.id, msg.Type, err)
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		log.Printf("[WS] conn=%s slow consumer, closing", c.id)
		c.conn.Close()
		return false
	}
}

// PlayerID returns the persistent player id bound to this connection, or ""
// before the first create/join/lobby.join.
func (c *Client) PlayerID() string {
	select {
	case id := <-c.playerID:
		c.playerID <- id
		return id
	default:
		return ""
	}
}

// bindPlayerID records the connection's identity once known. A later bind
// replaces the earlier value.
func (c *Client) bindPlayerID(id string) {
	if id == "" {
		return
	}
	select {
	case <-c.playerID:
	default:
	}
	c.playerID <- id
}

// Hub maintains the set of active websocket clients.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	count      chan chan int
}

// NewHub creates a new websocket hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		count:      make(chan chan int),
	}
}

// Run starts the hub's event loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			log.Printf("[WS] conn=%s connected (total: %d)", client.id, len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Printf("[WS] conn=%s disconnected (total: %d)", client.id, len(h.clients))
			}

		case reply := <-h.count:
			reply <- len(h.clients)
		}
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	reply := make(chan int)
	h.count <- reply
	return <-reply
}

// ServeWS upgrades an HTTP request and starts the connection's pumps.
func ServeWS(hub *Hub, dispatcher *Dispatcher, cfg *config.Tuning, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] upgrade failed: %v", err)
		return
	}

	client := newClient(hub, dispatcher, conn, cfg)
	hub.register <- client

	go client.writePump()
	go client.readPump(cfg.MaxMessageBytes)
}

// readPump reads frames and hands each to the dispatcher. Every message is
// processed to completion before the next read, which gives per-connection
// ordering for free.
func (c *Client) readPump(maxMessageBytes int64) {
	defer func() {
		c.dispatcher.Disconnect(c)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageBytes)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] conn=%s read error: %v", c.id, err)
			}
			break
		}
		c.dispatcher.Dispatch(c, data)
	}
}

// writePump writes queued messages and keepalive pings to the peer.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
