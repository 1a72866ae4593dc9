package realtime

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 128
)

var (
	ErrSessionClosed  = errors.New("realtime: session closed")
	ErrBufferExceeded = errors.New("realtime: send buffer exceeded")
)

// Session is one live client connection as seen by the Router.
type Session interface {
	ID() string
	UserID() string
	Start()
	Send(payload []byte) error
	Close(code int, reason string)
}

// Connection owns the write side of one websocket. Every outbound frame
// goes through a single goroutine fed by a bounded queue.
type Connection struct {
	id     string
	userID string
	ws     *websocket.Conn

	outbox  chan []byte
	done    chan struct{}
	starter sync.Once
	closer  sync.Once
}

var _ Session = (*Connection)(nil)

func NewConnection(userID string, ws *websocket.Conn) *Connection {
	return &Connection{
		id:     uuid.NewString(),
		userID: userID,
		ws:     ws,
		outbox: make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
	}
}

func (c *Connection) ID() string     { return c.id }
func (c *Connection) UserID() string { return c.userID }

// Start runs the writer. Later calls are no-ops.
func (c *Connection) Start() {
	c.starter.Do(func() { go c.pump() })
}

// Send queues payload. A full queue means the peer stopped reading, and the
// connection is dropped rather than blocking the caller.
func (c *Connection) Send(payload []byte) error {
	if c.closed() {
		return ErrSessionClosed
	}
	select {
	case c.outbox <- payload:
		return nil
	default:
		c.Close(websocket.CloseGoingAway, "send buffer full")
		return ErrBufferExceeded
	}
}

func (c *Connection) Close(code int, reason string) {
	c.closer.Do(func() {
		close(c.done)
		frame := websocket.FormatCloseMessage(code, reason)
		_ = c.ws.WriteControl(websocket.CloseMessage, frame, time.Now().Add(writeWait))
		_ = c.ws.Close()
	})
}

// Done is closed after Close.
func (c *Connection) Done() <-chan struct{} { return c.done }

func (c *Connection) closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *Connection) pump() {
	keepalive := time.NewTicker(pingPeriod)
	defer keepalive.Stop()

	for {
		var (
			kind    int
			payload []byte
		)
		select {
		case <-c.done:
			return
		case payload = <-c.outbox:
			kind = websocket.TextMessage
		case <-keepalive.C:
			kind = websocket.PingMessage
		}
		if err := c.write(kind, payload); err != nil {
			c.Close(websocket.CloseAbnormalClosure, "write failed")
			return
		}
	}
}

func (c *Connection) write(kind int, payload []byte) error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(kind, payload)
}
