package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/session"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

// Connection is a websocket client bound to one session
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	sessionID string
	sessions  *session.Manager
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewConnection wraps conn for the given session
func NewConnection(conn *websocket.Conn, sessionID string, sessions *session.Manager, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		conn:      conn,
		send:      make(chan *Message, 16),
		sessionID: sessionID,
		sessions:  sessions,
		logger:    logger.WithPrefix("conn").With("session", sessionID),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Done is closed once the connection has shut down
func (c *Connection) Done() <-chan struct{} { return c.ctx.Done() }

// Close closes the connection. The send channel is left to the writer.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues msg for the writer. A full buffer drops the client.
func (c *Connection) SendMessage(msg *Message) error {
	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return websocket.ErrCloseSent
	}
}

func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}
		c.handleMessage(&msg)
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Debug("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}

func (c *Connection) handleMessage(msg *ClientMessage) {
	c.logger.Debug("Received message", "type", msg.Type, "action", msg.Action)

	var view any
	err := c.sessions.Do(c.sessionID, func(s *session.Session) error {
		switch msg.Type {
		case MessageTypeView:
		case MessageTypeAction:
			action, err := game.ParseAction(msg.Action)
			if err != nil {
				return err
			}
			if err := s.Apply(action, msg.Bet); err != nil {
				return err
			}
		default:
			return errUnknownMessage{msg.Type}
		}
		view = s.View()
		return nil
	})
	if err != nil {
		c.sendError(err)
		return
	}

	out, err := NewMessage(MessageTypeState, view)
	if err != nil {
		c.logger.Error("Failed to encode view", "error", err)
		return
	}
	_ = c.SendMessage(out)
}

func (c *Connection) sendError(err error) {
	_, data := classify(err)
	var unknown errUnknownMessage
	if errors.As(err, &unknown) {
		data = ErrorData{Code: CodeInvalidMessage, Message: unknown.Error()}
	}
	msg, encErr := NewMessage(MessageTypeError, data)
	if encErr != nil {
		return
	}
	_ = c.SendMessage(msg)
}

type errUnknownMessage struct{ t MessageType }

func (e errUnknownMessage) Error() string { return "unknown message type: " + string(e.t) }
