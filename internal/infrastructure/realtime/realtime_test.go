package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSession struct {
	id     string
	userID string

	mu     sync.Mutex
	frames [][]byte
	closed bool
}

func newFake(id, userID string) *fakeSession { return &fakeSession{id: id, userID: userID} }

func (f *fakeSession) ID() string     { return f.id }
func (f *fakeSession) UserID() string { return f.userID }
func (f *fakeSession) Start()         {}

func (f *fakeSession) Send(payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrSessionClosed
	}
	f.frames = append(f.frames, payload)
	return nil
}

func (f *fakeSession) Close(int, string) {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

func (f *fakeSession) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.frames))
	for _, fr := range f.frames {
		var env Envelope
		_ = json.Unmarshal(fr, &env)
		out = append(out, env.Type)
	}
	return out
}

func TestRouterMultipleSessionsPerUser(t *testing.T) {
	r := NewRouter()
	a1, a2, b := newFake("s1", "alice"), newFake("s2", "alice"), newFake("s3", "bob")
	r.Attach(a1)
	r.Attach(a2)
	r.Attach(b)

	assert.Equal(t, 2, r.SessionCount("alice"))
	assert.Equal(t, 2, r.NotifyUser("alice", []byte("x")))

	require.True(t, r.Join("c1", a1))
	require.True(t, r.Join("c1", b))
	assert.Equal(t, 2, r.Broadcast("c1", []byte("m"), ""))
	assert.Equal(t, 1, r.Broadcast("c1", []byte("m"), "alice"))
	assert.Equal(t, 2, r.BroadcastAll([]byte("p"), "bob"))

	assert.Equal(t, 1, r.Detach(a1))
	assert.False(t, r.Joined("c1", a1))
	assert.Equal(t, 1, r.Broadcast("c1", []byte("m"), ""))
	assert.Equal(t, 0, r.Detach(a2))
	assert.Equal(t, 0, r.NotifyUser("alice", []byte("x")))
}

func TestRouterJoinRequiresAttach(t *testing.T) {
	r := NewRouter()
	s := newFake("s1", "alice")
	assert.False(t, r.Join("c1", s))
	assert.Equal(t, 0, r.Broadcast("c1", []byte("m"), ""))
}

func TestRouterCloseClosesSessions(t *testing.T) {
	r := NewRouter()
	s := newFake("s1", "alice")
	r.Attach(s)
	r.Close()
	assert.True(t, s.closed)
	assert.Equal(t, 0, r.SessionCount("alice"))
}

type loopbackBus struct {
	mu        sync.Mutex
	published []Delivery
}

func (b *loopbackBus) Publish(_ context.Context, d Delivery) error {
	b.mu.Lock()
	b.published = append(b.published, d)
	b.mu.Unlock()
	return nil
}

func (b *loopbackBus) Subscribe(ctx context.Context, handle func(Delivery)) error {
	b.mu.Lock()
	pending := append([]Delivery(nil), b.published...)
	b.mu.Unlock()
	for _, d := range pending {
		handle(d)
	}
	<-ctx.Done()
	return nil
}

func (b *loopbackBus) Close() error { return nil }

func TestGatewayDeliversLocallyAndRelays(t *testing.T) {
	r := NewRouter()
	bus := &loopbackBus{}
	gw := NewGateway(r, bus, "node-a", zap.NewNop())

	alice, bob := newFake("s1", "alice"), newFake("s2", "bob")
	r.Attach(alice)
	r.Attach(bob)
	r.Join("c1", alice)
	r.Join("c1", bob)

	require.NoError(t, gw.PublishToConversation(context.Background(), "c1", EventTyping, map[string]any{"isTyping": true}, "alice"))
	require.NoError(t, gw.PublishToUser(context.Background(), "alice", EventWalletNotification, map[string]string{"type": "success"}))
	require.NoError(t, gw.PublishToAll(context.Background(), EventUserConnected, map[string]string{"userId": "carol"}, ""))

	assert.Equal(t, []string{EventWalletNotification, EventUserConnected}, alice.types())
	assert.Equal(t, []string{EventTyping, EventUserConnected}, bob.types())
	require.Len(t, bus.published, 3)
	assert.Equal(t, "node-a", bus.published[0].Origin)
	assert.Equal(t, ScopeRoom, bus.published[0].Scope)
}

func TestGatewayRunSkipsOwnOrigin(t *testing.T) {
	r := NewRouter()
	frame, err := Encode(EventNewMessage, map[string]string{"id": "m1"})
	require.NoError(t, err)
	bus := &loopbackBus{published: []Delivery{
		{Origin: "node-a", Scope: ScopeUser, Target: "bob", Frame: frame},
		{Origin: "node-b", Scope: ScopeUser, Target: "bob", Frame: frame},
	}}
	gw := NewGateway(r, bus, "node-a", zap.NewNop())
	bob := newFake("s1", "bob")
	r.Attach(bob)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, gw.Run(ctx))
	assert.Equal(t, []string{EventNewMessage}, bob.types())
}

func TestEncodeEnvelope(t *testing.T) {
	frame, err := Encode(EventError, ErrorPayload{Code: "forbidden", Error: "nope"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"error","payload":{"code":"forbidden","error":"nope"}}`, string(frame))

	frame, err = Encode(EventJoinRoom, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"join_room"}`, string(frame))
}

func TestConnectionWritesFrames(t *testing.T) {
	upgrader := websocket.Upgrader{}
	router := NewRouter()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ws, err := upgrader.Upgrade(w, req, nil)
		if err != nil {
			return
		}
		conn := NewConnection("alice", ws)
		router.Attach(conn)
		_ = SendEvent(conn, EventUserConnected, map[string]string{"userId": "alice"})
	}))
	defer srv.Close()

	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer ws.Close()

	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var env Envelope
	require.NoError(t, ws.ReadJSON(&env))
	assert.Equal(t, EventUserConnected, env.Type)
	assert.JSONEq(t, `{"userId":"alice"}`, string(env.Payload))
	router.Close()
}

func TestConnectionRepeatedStartKeepsFrameOrder(t *testing.T) {
	const n = 100
	upgrader := websocket.Upgrader{}
	router := NewRouter()
	defer router.Close()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ws, err := upgrader.Upgrade(w, req, nil)
		if err != nil {
			return
		}
		conn := NewConnection("alice", ws)
		router.Attach(conn)
		conn.Start()
		for i := 0; i < n; i++ {
			_ = SendEvent(conn, EventNewMessage, map[string]int{"seq": i})
		}
	}))
	defer srv.Close()

	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer ws.Close()

	_ = ws.SetReadDeadline(time.Now().Add(5 * time.Second))
	for i := 0; i < n; i++ {
		var env Envelope
		require.NoError(t, ws.ReadJSON(&env))
		var p struct {
			Seq int `json:"seq"`
		}
		require.NoError(t, json.Unmarshal(env.Payload, &p))
		require.Equal(t, i, p.Seq)
	}
}
