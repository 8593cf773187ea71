package websocket

import (
	"bytes"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024

	sendBufferSize = 256
)

var (
	newline = []byte{'\n'}
	space   = []byte{' '}
)

// InboundFunc handles a frame read from the client instead of broadcasting it
type InboundFunc func(c *Client, payload []byte)

// ClientOption customizes a client before it is registered
type ClientOption func(*Client)

// WithInbound routes inbound frames to fn
func WithInbound(fn InboundFunc) ClientOption {
	return func(c *Client) { c.inbound = fn }
}

// WithOnClose runs fn once the connection is torn down
func WithOnClose(fn func()) ClientOption {
	return func(c *Client) { c.onClose = fn }
}

// DiscardInbound ignores every frame sent by the client
func DiscardInbound(*Client, []byte) {}

// Client is a middleman between the websocket connection and the hub
type Client struct {
	hub *Hub

	conn *websocket.Conn

	// Buffered channel of outbound messages
	send chan []byte

	mu     sync.Mutex
	closed bool

	userID int64
	roomID int64

	inbound InboundFunc
	onClose func()

	logger zerolog.Logger
}

// UserID returns the authenticated user behind the connection
func (c *Client) UserID() int64 { return c.userID }

// RoomID returns the room the client listens to
func (c *Client) RoomID() int64 { return c.roomID }

// Send queues data without blocking; false means the client is gone or slow
func (c *Client) Send(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// SendMessage marshals and queues a message for this client only
func (c *Client) SendMessage(msg *Message) bool {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to marshal direct message")
		return false
	}
	return c.Send(data)
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// readPump pumps messages from the websocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
		if c.onClose != nil {
			c.onClose()
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().
					Err(err).
					Int64("userID", c.userID).
					Int64("roomID", c.roomID).
					Msg("Unexpected WebSocket close")
			} else {
				c.logger.Debug().
					Err(err).
					Int64("userID", c.userID).
					Int64("roomID", c.roomID).
					Msg("WebSocket closed")
			}
			break
		}

		message = bytes.TrimSpace(bytes.Replace(message, newline, space, -1))

		if c.inbound != nil {
			c.inbound(c, message)
			continue
		}

		var msg Message
		if err := json.Unmarshal(message, &msg); err != nil {
			c.logger.Warn().
				Err(err).
				Int64("userID", c.userID).
				Int64("roomID", c.roomID).
				Msg("Failed to unmarshal client message")
			continue
		}
		if msg.Content == "" {
			continue
		}

		// Clients cannot spoof sender, room or type
		msg.Type = MessageTypeText
		msg.SenderID = c.userID
		msg.RoomID = c.roomID
		msg.Timestamp = time.Now()
		msg.ID = 0
		msg.Payload = nil

		if !c.hub.BroadcastToRoom(&msg) {
			break
		}
	}
}

// writePump pumps messages from the hub to the websocket connection
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
