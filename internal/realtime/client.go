package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20
	sendBufferSize = 64
)

// clientMessage is what a connected client sends upstream: either a room
// membership change or an event to fan out.
type clientMessage struct {
	// Op is "join", "leave" or "emit".
	Op          string `json:"op"`
	WorkspaceID string `json:"workspace_id,omitempty"`
	Event       *Event `json:"event,omitempty"`
}

// Conn is one websocket connection registered with the hub. Reads and
// writes run on their own goroutines (gorilla requires single reader /
// single writer).
type Conn struct {
	id     string
	userID string
	hub    *Hub
	ws     *websocket.Conn
	send   chan Event
	logger zerolog.Logger

	closeMu sync.Mutex
	closed  bool
}

// NewConn wraps an upgraded websocket connection.
func NewConn(id, userID string, hub *Hub, ws *websocket.Conn, logger zerolog.Logger) *Conn {
	return &Conn{
		id:     id,
		userID: userID,
		hub:    hub,
		ws:     ws,
		send:   make(chan Event, sendBufferSize),
		logger: logger.With().Str("client_id", id).Logger(),
	}
}

// ClientID implements Subscriber.
func (c *Conn) ClientID() string { return c.id }

// Deliver implements Subscriber. Non-blocking; reports false when the
// buffer is full or the connection already closed.
func (c *Conn) Deliver(e Event) bool {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- e:
		return true
	default:
		return false
	}
}

// Run services the connection until it closes. It blocks, so callers start
// it on the handler goroutine after upgrading.
func (c *Conn) Run(ctx context.Context) {
	go c.writePump()
	c.readPump(ctx)
}

func (c *Conn) readPump(ctx context.Context) {
	defer func() {
		c.hub.LeaveAll(c.id)
		c.closeMu.Lock()
		c.closed = true
		close(c.send)
		c.closeMu.Unlock()
		c.ws.Close()
	}()

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn().Err(err).Msg("unexpected websocket close")
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.Warn().Err(err).Msg("malformed client message")
			continue
		}

		switch msg.Op {
		case "join":
			if msg.WorkspaceID != "" {
				c.hub.Join(msg.WorkspaceID, c)
			}
		case "leave":
			if msg.WorkspaceID != "" {
				c.hub.Leave(msg.WorkspaceID, c.id)
			}
		case "emit":
			if msg.Event == nil {
				continue
			}
			if err := c.hub.Broadcast(ctx, *msg.Event, c.id); err != nil {
				c.logger.Warn().Err(err).Msg("rejected client event")
			}
		default:
			c.logger.Warn().Str("op", msg.Op).Msg("unknown client op")
		}
	}
}

func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case e, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			data, err := e.Encode()
			if err != nil {
				c.logger.Error().Err(err).Msg("failed to encode event")
				continue
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
