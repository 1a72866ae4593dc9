package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"go-messenger/internal/infrastructure/auth"
	"go-messenger/internal/infrastructure/realtime"
	"go-messenger/internal/pkg/apperr"
	chat "go-messenger/internal/pkg/chat/application/domain"
	"go-messenger/internal/pkg/chat/application/usecase"
)

// PresenceTracker is told when a user's persistent channel opens and closes.
// It owns the global user_connected and user_disconnected broadcasts.
type PresenceTracker interface {
	Connect(ctx context.Context, id auth.Identity) error
	Disconnect(ctx context.Context, userID string) error
}

// SocketDeps groups what the websocket endpoint needs.
type SocketDeps struct {
	Gateway        *realtime.Gateway
	SendMessage    *usecase.SendMessageUseCase
	JoinRoom       *usecase.JoinConversationUseCase
	Typing         *usecase.TypingUseCase
	Presence       PresenceTracker
	AllowedOrigins []string
	PersistTimeout time.Duration
	Log            *zap.Logger
}

// ChatSocketController handles the websocket endpoint for realtime chat traffic.
type ChatSocketController struct {
	gateway         *realtime.Gateway
	sendMessageUC   *usecase.SendMessageUseCase
	joinRoomUC      *usecase.JoinConversationUseCase
	typingUC        *usecase.TypingUseCase
	presence        PresenceTracker
	upgrader        websocket.Upgrader
	inflightTimeout time.Duration
	log             *zap.Logger
}

func NewChatSocketController(deps SocketDeps) *ChatSocketController {
	timeout := deps.PersistTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	allowed := deps.AllowedOrigins
	return &ChatSocketController{
		gateway:       deps.Gateway,
		sendMessageUC: deps.SendMessage,
		joinRoomUC:    deps.JoinRoom,
		typingUC:      deps.Typing,
		presence:      deps.Presence,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return OriginAllowed(r.Header.Get("Origin"), allowed)
			},
		},
		inflightTimeout: timeout,
		log:             deps.Log.With(zap.String("module", "chat_socket")),
	}
}

type joinRoomPayload struct {
	ConversationID string `json:"conversationId"`
}

type typingPayload struct {
	ConversationID string `json:"conversationId"`
	IsTyping       bool   `json:"isTyping"`
}

type sendMessagePayload struct {
	ConversationID string            `json:"conversationId"`
	Type           string            `json:"type"`
	Text           string            `json:"text"`
	Attachments    []chat.Attachment `json:"attachments"`
	Nonce          string            `json:"nonce"`
}

const (
	defaultReadTimeout = 60 * time.Second
	maxFrameBytes      = 1 << 20
)

// Handle upgrades an authenticated request and processes frames until the client disconnects.
func (ctl *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := auth.IdentityFrom(c)
		if !ok {
			apperr.Respond(c, auth.ErrUnauthorized)
			return
		}

		ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response.
			ctl.log.Debug("websocket upgrade failed", zap.Error(err))
			return
		}

		ctx := c.Request.Context()
		router := ctl.gateway.Router()
		conn := realtime.NewConnection(identity.UserID, ws)
		router.Attach(conn)
		ctl.connected(ctx, identity)

		defer func() {
			router.Detach(conn)
			conn.Close(websocket.CloseNormalClosure, "session closed")
			ctl.disconnected(context.WithoutCancel(ctx), identity.UserID)
		}()

		ws.SetReadLimit(maxFrameBytes)
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) &&
					!errors.Is(err, websocket.ErrCloseSent) {
					ctl.log.Debug("websocket read ended", zap.String("user_id", identity.UserID), zap.Error(err))
				}
				return
			}
			_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))

			var env realtime.Envelope
			if err := json.Unmarshal(data, &env); err != nil {
				realtime.SendError(conn, "bad_request", "invalid payload")
				continue
			}
			ctl.dispatch(ctx, conn, env)
		}
	}
}

func (ctl *ChatSocketController) dispatch(ctx context.Context, conn *realtime.Connection, env realtime.Envelope) {
	switch env.Type {
	case realtime.EventJoinRoom:
		var p joinRoomPayload
		if !decode(conn, env.Payload, &p) {
			return
		}
		ctl.handleJoin(ctx, conn, p)
	case realtime.EventTyping:
		var p typingPayload
		if !decode(conn, env.Payload, &p) {
			return
		}
		ctl.handleTyping(ctx, conn, p)
	case realtime.EventSendMessage:
		var p sendMessagePayload
		if !decode(conn, env.Payload, &p) {
			return
		}
		ctl.handleMessage(ctx, conn, p)
	default:
		realtime.SendError(conn, "bad_request", "unknown event type")
	}
}

func decode(conn realtime.Session, raw json.RawMessage, v any) bool {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		realtime.SendError(conn, "bad_request", "invalid payload")
		return false
	}
	return true
}

// handleJoin has no success reply; the session starts receiving the group's events.
func (ctl *ChatSocketController) handleJoin(ctx context.Context, conn *realtime.Connection, p joinRoomPayload) {
	ctx, cancel := context.WithTimeout(ctx, ctl.inflightTimeout)
	defer cancel()

	err := ctl.joinRoomUC.Execute(ctx, usecase.JoinConversationInput{
		ConversationID: p.ConversationID,
		UserID:         conn.UserID(),
	})
	if err != nil {
		ctl.replyError(conn, err)
		return
	}
	ctl.gateway.Router().Join(p.ConversationID, conn)
}

func (ctl *ChatSocketController) handleTyping(ctx context.Context, conn *realtime.Connection, p typingPayload) {
	if !ctl.gateway.Router().Joined(p.ConversationID, conn) {
		ctl.replyError(conn, apperr.Forbidden(errors.New("join the conversation first")))
		return
	}
	err := ctl.typingUC.Execute(ctx, usecase.TypingInput{
		ConversationID: p.ConversationID,
		UserID:         conn.UserID(),
		IsTyping:       p.IsTyping,
	})
	if err != nil {
		ctl.log.Debug("typing relay incomplete", zap.String("conversation_id", p.ConversationID), zap.Error(err))
	}
}

// handleMessage submits to the fan-out engine. The confirmation reaches this
// session through the group broadcast when it has joined; otherwise it is
// written back directly so the sender can reconcile.
func (ctl *ChatSocketController) handleMessage(ctx context.Context, conn *realtime.Connection, p sendMessagePayload) {
	msg, err := ctl.sendMessageUC.Execute(ctx, usecase.SendMessageInput{
		ConversationID: p.ConversationID,
		SenderID:       conn.UserID(),
		Type:           p.Type,
		Text:           p.Text,
		Attachments:    p.Attachments,
		Nonce:          p.Nonce,
	})
	if err != nil {
		ctl.replyErrorFor(conn, err, p.Nonce)
		return
	}
	if !ctl.gateway.Router().Joined(p.ConversationID, conn) {
		_ = realtime.SendEvent(conn, realtime.EventNewMessage, newMessageEvent(*msg))
	}
}

func (ctl *ChatSocketController) connected(ctx context.Context, identity auth.Identity) {
	if ctl.presence == nil {
		return
	}
	if err := ctl.presence.Connect(ctx, identity); err != nil {
		ctl.log.Warn("presence update failed", zap.String("user_id", identity.UserID), zap.Error(err))
	}
}

func (ctl *ChatSocketController) disconnected(ctx context.Context, userID string) {
	if ctl.presence == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, ctl.inflightTimeout)
	defer cancel()
	if err := ctl.presence.Disconnect(ctx, userID); err != nil {
		ctl.log.Warn("presence update failed", zap.String("user_id", userID), zap.Error(err))
	}
}

// replyError reports err to the originating session only.
func (ctl *ChatSocketController) replyError(conn realtime.Session, err error) {
	ctl.replyErrorFor(conn, err, "")
}

func (ctl *ChatSocketController) replyErrorFor(conn realtime.Session, err error, nonce string) {
	_, code := apperr.Classify(err)
	if code == "internal_error" {
		ctl.log.Error("socket operation failed", zap.String("user_id", conn.UserID()), zap.Error(err))
	}
	realtime.SendErrorPayload(conn, realtime.ErrorPayload{Code: code, Error: apperr.Message(err), Nonce: nonce})
}

// OriginAllowed matches an Origin header against host patterns. An empty
// allowlist or a missing header accepts. "*.example.org" matches subdomains.
func OriginAllowed(origin string, allowed []string) bool {
	if len(allowed) == 0 || origin == "" {
		return true
	}
	host := origin
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	if i := strings.IndexAny(host, ":/"); i >= 0 {
		host = host[:i]
	}
	host = strings.ToLower(host)
	for _, pattern := range allowed {
		pattern = strings.ToLower(strings.TrimSpace(pattern))
		switch {
		case pattern == "*", pattern == host:
			return true
		case strings.HasPrefix(pattern, "*.") && strings.HasSuffix(host, pattern[1:]):
			return true
		}
	}
	return false
}
