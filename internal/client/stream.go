package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/server"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 54 * time.Second
)

// ErrClosed is returned once the stream has shut down
var ErrClosed = errors.New("client: stream closed")

// Stream is a websocket bound to one session. Every request is answered
// with exactly one state or error message, in order.
type Stream struct {
	conn      *websocket.Conn
	send      chan *server.ClientMessage
	receive   chan *server.Message
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// Dial opens the websocket stream for session id
func (c *Client) Dial(ctx context.Context, id string) (*Stream, error) {
	u := *c.baseURL
	// Convert http/https to ws/wss
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = "/ws"
	u.RawQuery = url.Values{"session": {id}}.Encode()

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, &APIError{Status: resp.StatusCode, Code: server.CodeNotFound, Message: "session not found"}
		}
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	sctx, cancel := context.WithCancel(context.Background())
	s := &Stream{
		conn:    conn,
		send:    make(chan *server.ClientMessage, 16),
		receive: make(chan *server.Message, 16),
		logger:  c.logger.With("session", id),
		ctx:     sctx,
		cancel:  cancel,
	}
	go s.readPump()
	go s.writePump()

	s.logger.Debug("Connected to session stream")
	return s, nil
}

// Close shuts the stream down
func (s *Stream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.cancel()
		err = s.conn.Close()
	})
	return err
}

// Send queues msg for the writer
func (s *Stream) Send(msg *server.ClientMessage) error {
	if s.ctx.Err() != nil {
		return ErrClosed
	}
	select {
	case s.send <- msg:
		return nil
	case <-s.ctx.Done():
		return ErrClosed
	default:
		return fmt.Errorf("send buffer full")
	}
}

// Receive waits for the next server message
func (s *Stream) Receive(ctx context.Context) (*server.Message, error) {
	select {
	case msg := <-s.receive:
		return msg, nil
	case <-s.ctx.Done():
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Act sends an action and decodes the resulting view into v. An error
// message from the server is returned as an *APIError.
func (s *Stream) Act(ctx context.Context, action game.Action, bet int, v any) error {
	return s.roundTrip(ctx, &server.ClientMessage{Type: server.MessageTypeAction, Action: string(action), Bet: bet}, v)
}

// View asks for the current view without changing the table
func (s *Stream) View(ctx context.Context, v any) error {
	return s.roundTrip(ctx, &server.ClientMessage{Type: server.MessageTypeView}, v)
}

func (s *Stream) roundTrip(ctx context.Context, msg *server.ClientMessage, v any) error {
	if err := s.Send(msg); err != nil {
		return err
	}
	reply, err := s.Receive(ctx)
	if err != nil {
		return err
	}

	switch reply.Type {
	case server.MessageTypeError:
		var data server.ErrorData
		if err := json.Unmarshal(reply.Data, &data); err != nil {
			return fmt.Errorf("failed to decode error: %w", err)
		}
		return &APIError{Code: data.Code, Message: data.Message}
	case server.MessageTypeState:
		if v == nil {
			return nil
		}
		return json.Unmarshal(reply.Data, v)
	default:
		return fmt.Errorf("unexpected message type %q", reply.Type)
	}
}

func (s *Stream) readPump() {
	defer func() { _ = s.Close() }()

	for {
		var msg server.Message
		if err := s.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				s.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		s.logger.Debug("Received message", "type", msg.Type)

		select {
		case s.receive <- &msg:
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Stream) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.Close()
	}()

	for {
		select {
		case msg := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(msg); err != nil {
				s.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-s.ctx.Done():
			return
		}
	}
}
