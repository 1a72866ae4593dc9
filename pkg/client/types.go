// Package client is a Go client for the messenger realtime endpoint. It keeps
// per-conversation timelines that merge optimistic local sends with the
// server-confirmed messages.
package client

import (
	"encoding/json"
	"time"
)

// Event names carried in the envelope "type" field.
const (
	EventJoinRoom            = "join_room"
	EventTyping              = "typing"
	EventSendMessage         = "send_message"
	EventNewMessage          = "new_message"
	EventMessageNotification = "message_notification"
	EventUserConnected       = "user_connected"
	EventUserDisconnected    = "user_disconnected"
	EventWalletNotification  = "wallet_notification"
	EventError               = "error"
)

type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Attachment struct {
	URL  string `json:"url"`
	Name string `json:"name,omitempty"`
	Size int64  `json:"size,omitempty"`
}

// Message mirrors the server's message shape.
type Message struct {
	ID             string       `json:"id"`
	ConversationID string       `json:"conversationId"`
	SenderID       string       `json:"senderId"`
	Type           string       `json:"type"`
	Text           string       `json:"text,omitempty"`
	Attachments    []Attachment `json:"attachments,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
	Nonce          string       `json:"nonce,omitempty"`
}

type NewMessageEvent struct {
	Message Message `json:"message"`
}

type ErrorEvent struct {
	Code  string `json:"code"`
	Error string `json:"error"`
	Nonce string `json:"nonce,omitempty"`
}

type TypingEvent struct {
	ConversationID string `json:"conversationId"`
	UserID         string `json:"userId"`
	IsTyping       bool   `json:"isTyping"`
}

type PresenceEvent struct {
	UserID string `json:"userId"`
}

type WalletEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Page is one history batch, oldest first.
type Page struct {
	Messages []Message `json:"messages"`
	HasMore  bool      `json:"hasMore"`
}
