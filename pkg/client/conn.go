package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeTimeout = 10 * time.Second

var ErrClosed = errors.New("client: connection closed")

// Config configures Dial.
type Config struct {
	// URL of the websocket endpoint, e.g. ws://localhost:4000/api/v1/ws.
	URL string
	// Token is sent as a bearer credential.
	Token string
	// UserID stamps optimistic entries created by Send.
	UserID string
	// RequireNonce disables the sender+text fallback in every timeline.
	RequireNonce bool
	Dialer       *websocket.Dialer
}

// Handler receives every frame after the connection's own bookkeeping ran.
type Handler func(eventType string, payload json.RawMessage)

// Conn is one live session. Run must be called to process incoming frames.
type Conn struct {
	cfg Config
	ws  *websocket.Conn

	writeMu sync.Mutex

	mu        sync.RWMutex
	handlers  map[string][]Handler
	timelines map[string]*Timeline
}

func Dial(ctx context.Context, cfg Config) (*Conn, error) {
	dialer := cfg.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	header := http.Header{}
	if cfg.Token != "" {
		header.Set("Authorization", "Bearer "+cfg.Token)
	}
	ws, resp, err := dialer.DialContext(ctx, cfg.URL, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("client: dial %s: %w (status %d)", cfg.URL, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("client: dial %s: %w", cfg.URL, err)
	}
	return &Conn{
		cfg:       cfg,
		ws:        ws,
		handlers:  make(map[string][]Handler),
		timelines: make(map[string]*Timeline),
	}, nil
}

// On registers h for eventType. Handlers run on the Run goroutine.
func (c *Conn) On(eventType string, h Handler) {
	c.mu.Lock()
	c.handlers[eventType] = append(c.handlers[eventType], h)
	c.mu.Unlock()
}

// Timeline returns the conversation's timeline, creating it on first use.
func (c *Conn) Timeline(conversationID string) *Timeline {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.timelines[conversationID]
	if !ok {
		var opts []TimelineOption
		if c.cfg.RequireNonce {
			opts = append(opts, RequireNonce())
		}
		t = NewTimeline(conversationID, opts...)
		c.timelines[conversationID] = t
	}
	return t
}

func (c *Conn) Join(conversationID string) error {
	return c.write(EventJoinRoom, map[string]string{"conversationId": conversationID})
}

func (c *Conn) Typing(conversationID string, isTyping bool) error {
	return c.write(EventTyping, map[string]any{"conversationId": conversationID, "isTyping": isTyping})
}

// Send adds an optimistic entry to the conversation's timeline and submits it.
// A write failure marks the entry failed before returning.
func (c *Conn) Send(conversationID, text string, attachments ...Attachment) (Entry, error) {
	e := c.Timeline(conversationID).AddPending(c.cfg.UserID, text, attachments)
	err := c.write(EventSendMessage, map[string]any{
		"conversationId": conversationID,
		"type":           e.Type,
		"text":           text,
		"attachments":    attachments,
		"nonce":          e.Nonce,
	})
	if err != nil {
		c.Timeline(conversationID).MarkFailed(e.Nonce)
		e.Status = StatusFailed
		return e, err
	}
	return e, nil
}

func (c *Conn) write(eventType string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	frame, err := json.Marshal(Envelope{Type: eventType, Payload: raw})
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteMessage(websocket.TextMessage, frame)
}

// Run reads frames until ctx ends or the server closes the connection.
func (c *Conn) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { _ = c.ws.Close() })
	defer stop()

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return ErrClosed
			}
			return err
		}
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			continue
		}
		c.handle(env)
	}
}

func (c *Conn) handle(env Envelope) {
	switch env.Type {
	case EventNewMessage:
		var ev NewMessageEvent
		if json.Unmarshal(env.Payload, &ev) == nil {
			c.Timeline(ev.Message.ConversationID).Apply(ev.Message)
		}
	case EventError:
		var ev ErrorEvent
		if json.Unmarshal(env.Payload, &ev) == nil && ev.Nonce != "" {
			c.markFailed(ev.Nonce)
		}
	}

	c.mu.RLock()
	handlers := append([]Handler(nil), c.handlers[env.Type]...)
	c.mu.RUnlock()
	for _, h := range handlers {
		h(env.Type, env.Payload)
	}
}

func (c *Conn) markFailed(nonce string) {
	c.mu.RLock()
	timelines := make([]*Timeline, 0, len(c.timelines))
	for _, t := range c.timelines {
		timelines = append(timelines, t)
	}
	c.mu.RUnlock()
	for _, t := range timelines {
		if t.MarkFailed(nonce) {
			return
		}
	}
}

// Close sends a close frame and releases the connection.
func (c *Conn) Close() error {
	c.writeMu.Lock()
	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.writeMu.Unlock()
	return c.ws.Close()
}
