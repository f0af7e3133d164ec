package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/session"
)

// MessageType identifies a websocket message
type MessageType string

const (
	// Client → Server
	MessageTypeAction MessageType = "action"
	MessageTypeView   MessageType = "view"

	// Server → Client
	MessageTypeState MessageType = "state"
	MessageTypeError MessageType = "error"
)

// ClientMessage is a request from a websocket client
type ClientMessage struct {
	Type   MessageType `json:"type"`
	Action string      `json:"action,omitempty"`
	Bet    int         `json:"bet,omitempty"`
}

// Message is the envelope sent to websocket clients
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// ErrorData is the body of every error response
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CreateSessionRequest is the body of POST /api/sessions
type CreateSessionRequest struct {
	Mode string `json:"mode"`
}

// CreateSessionResponse is returned when a session is opened
type CreateSessionResponse struct {
	ID   string       `json:"id"`
	Mode session.Mode `json:"mode"`
	View any          `json:"view"`
}

// ActionRequest is the body of POST /api/sessions/{id}/actions
type ActionRequest struct {
	Action string `json:"action"`
	Bet    int    `json:"bet,omitempty"`
}

// Error codes
const (
	CodeInvalidMessage  = "invalid_message"
	CodeInvalidBet      = "invalid_bet"
	CodeUnknownAction   = "unknown_action"
	CodeUnknownMode     = "unknown_mode"
	CodeRoundInProgress = "round_in_progress"
	CodeNotFound        = "not_found"
	CodeInternal        = "internal_error"
)

// classify maps an error to an HTTP status and error code
func classify(err error) (int, ErrorData) {
	data := ErrorData{Message: err.Error()}
	status := http.StatusBadRequest

	switch {
	case errors.Is(err, session.ErrNotFound):
		status, data.Code = http.StatusNotFound, CodeNotFound
	case errors.Is(err, session.ErrUnknownMode):
		data.Code = CodeUnknownMode
	case errors.Is(err, game.ErrInvalidBet):
		data.Code = CodeInvalidBet
	case errors.Is(err, game.ErrUnknownAction):
		data.Code = CodeUnknownAction
	case errors.Is(err, game.ErrRoundInProgress):
		status, data.Code = http.StatusConflict, CodeRoundInProgress
	default:
		status, data.Code = http.StatusInternalServerError, CodeInternal
	}
	return status, data
}
