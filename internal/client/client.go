// Package client consumes the relay endpoints. It posts one turn, decodes the
// event stream and reports fragments and the single terminal outcome to a
// Sink.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"portfolio-chat/backend/internal/model"
	"portfolio-chat/backend/internal/protocol"
)

// ErrStreamTruncated is reported when the stream ends without a terminal record.
var ErrStreamTruncated = errors.New("stream ended without a terminal record")

// StatusError is reported when the relay refuses a turn before streaming.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("relay returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("relay returned status %d: %s", e.StatusCode, e.Message)
}

// UpstreamError carries the message of an in-stream error record.
type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string {
	return e.Message
}

// Sink receives the events of one turn. OnFragment may be called any number of
// times, followed by exactly one call to OnDone or OnError.
type Sink interface {
	OnFragment(text string)
	OnDone()
	OnError(err error)
}

// Client talks to one relay server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default HTTP client. Its Timeout bounds a whole
// turn, streaming included.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Chat relays an open chat turn. messages is the whole conversation, ending
// with the new user turn. The returned error is the one passed to OnError, or
// nil after OnDone.
func (c *Client) Chat(ctx context.Context, messages []model.Message, sink Sink) error {
	return c.turn(ctx, "/api/chat", model.ChatRequest{Messages: messages}, sink)
}

// Learn relays an annotation turn.
func (c *Client) Learn(ctx context.Context, req model.LearnRequest, sink Sink) error {
	return c.turn(ctx, "/api/learn", req, sink)
}

func (c *Client) turn(ctx context.Context, path string, body any, sink Sink) error {
	err := c.do(ctx, path, body, sink)
	if err != nil {
		sink.OnError(err)
	}
	return err
}

// do returns nil only after it has called sink.OnDone.
func (c *Client) do(ctx context.Context, path string, body any, sink Sink) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("could not encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("could not build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("relay request failed: %w", err)
	}
	defer func() {
		if cErr := resp.Body.Close(); cErr != nil {
			c.logger.Debug("Failed to close relay response body", "error", cErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	dec := protocol.NewDecoder(resp.Body)
	for {
		record, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return ErrStreamTruncated
		}
		if err != nil {
			return fmt.Errorf("reading relay stream: %w", err)
		}

		ev, err := protocol.ParseRecord(record)
		if err != nil {
			c.logger.Debug("Skipping malformed stream record", "path", path, "record", string(record))
			continue
		}
		switch ev.Kind {
		case protocol.EventText:
			sink.OnFragment(ev.Text)
		case protocol.EventDone:
			sink.OnDone()
			return nil
		case protocol.EventError:
			return &UpstreamError{Message: ev.Error}
		}
	}
}

func statusError(resp *http.Response) error {
	se := &StatusError{StatusCode: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return se
	}
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		se.Message = body.Error
	} else {
		se.Message = strings.TrimSpace(string(raw))
	}
	return se
}
