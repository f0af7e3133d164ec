// Package client talks to a blackjack session server over its JSON API and
// websocket stream.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/server" // Reuse message types
)

// APIError is a non-2xx response from the server
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
}

// IsCode reports whether err is an APIError with the given code
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// Session is a freshly created table
type Session struct {
	ID   string          `json:"id"`
	Mode string          `json:"mode"`
	View json.RawMessage `json:"view"`
}

// Client calls the session API of one server
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *log.Logger
}

// New creates a client for serverURL, e.g. "http://localhost:8080"
func New(serverURL string, logger *log.Logger) (*Client, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server URL %q: scheme must be http or https", serverURL)
	}
	return &Client{
		baseURL: u,
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  logger.WithPrefix("client"),
	}, nil
}

// CreateSession opens a table in the given mode ("dealer" or "duel")
func (c *Client) CreateSession(ctx context.Context, mode string) (*Session, error) {
	var s Session
	if err := c.do(ctx, http.MethodPost, "/api/sessions", server.CreateSessionRequest{Mode: mode}, &s); err != nil {
		return nil, err
	}
	c.logger.Debug("Created session", "id", s.ID, "mode", s.Mode)
	return &s, nil
}

// View decodes the session's current view into v, a *game.View for dealer
// tables or a *game.DuelView for duels.
func (c *Client) View(ctx context.Context, id string, v any) error {
	return c.do(ctx, http.MethodGet, "/api/sessions/"+url.PathEscape(id), nil, v)
}

// Act applies an action and decodes the resulting view into v
func (c *Client) Act(ctx context.Context, id string, action game.Action, bet int, v any) error {
	req := server.ActionRequest{Action: string(action), Bet: bet}
	return c.do(ctx, http.MethodPost, "/api/sessions/"+url.PathEscape(id)+"/actions", req, v)
}

// Delete closes the session
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/sessions/"+url.PathEscape(id), nil, nil)
}

// Health checks that the server is up
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var data server.ErrorData
		if err := json.NewDecoder(resp.Body).Decode(&data); err == nil {
			apiErr.Code, apiErr.Message = data.Code, data.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) endpoint(path string) string {
	return strings.TrimSuffix(c.baseURL.String(), "/") + path
}
