package ws

import (
	"encoding/json"
	"errors"
	"net"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Miooowo/KCD-Dice-Game/internal/services/match"
)

const (
	// writeWait is how long a single write may take before the connection
	// is considered dead
	writeWait = 10 * time.Second

	// pongWait is how long the server waits for a pong before dropping
	// the connection
	pongWait = 60 * time.Second

	// pingPeriod must be shorter than pongWait
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 8192

	readBufferSize  = 1024
	writeBufferSize = 1024

	// sendQueueSize bounds the per-client outbound buffer; a client that
	// cannot drain it loses events rather than blocking the server
	sendQueueSize = 32
)

// client is one websocket connection. The read pump is the only reader and
// the write pump the only writer, per gorilla/websocket's concurrency rules.
type client struct {
	id      string
	conn    *websocket.Conn
	gateway *Gateway

	out    chan outbound
	closed chan struct{}
}

func newClient(id string, conn *websocket.Conn, g *Gateway) *client {
	return &client{
		id:      id,
		conn:    conn,
		gateway: g,
		out:     make(chan outbound, sendQueueSize),
		closed:  make(chan struct{}),
	}
}

// send queues an outbound event without blocking. Events are dropped when
// the client's queue is full or the client is closing.
func (c *client) send(msg outbound) {
	select {
	case <-c.closed:
	case c.out <- msg:
	default:
		log.Warn().
			Str("transport_id", c.id).
			Str("event", msg.Event).
			Msg("send queue full, dropping event")
	}
}

// close stops the write pump. Safe to call from dropClient after the read
// pump exits; the closed channel guards against double close.
func (c *client) close() {
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}
}

func (c *client) readPump() {
	reason := match.ReasonTransportClose
	defer func() {
		c.gateway.dropClient(c, reason)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			reason = disconnectReason(err)
			return
		}

		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			log.Warn().
				Err(err).
				Str("transport_id", c.id).
				Msg("malformed message, dropping")
			continue
		}
		if env.Event == "" {
			log.Warn().
				Str("transport_id", c.id).
				Msg("message without event name, dropping")
			continue
		}

		c.gateway.dispatch(c, &env)
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.out:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.closed:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// disconnectReason classifies a read error into the reasons the match
// service distinguishes when deciding whether a seat is recoverable.
func disconnectReason(err error) string {
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return match.ReasonClientClose
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return match.ReasonPingTimeout
	}
	if websocket.IsUnexpectedCloseError(err) {
		return match.ReasonTransportClose
	}
	return match.ReasonTransportError
}
