package chat

import (
	"errors"
	"strings"
	"time"
)

// MessageType represents the kind of content a message carries.
type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
	MessageTypeFile  MessageType = "file"
	MessageTypeVideo MessageType = "video"
	MessageTypeAudio MessageType = "audio"
)

var ErrInvalidMessageType = errors.New("chat: unknown message type")

// ParseMessageType maps the wire value to a MessageType; empty means text.
func ParseMessageType(s string) (MessageType, error) {
	switch t := MessageType(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return MessageTypeText, nil
	case MessageTypeText, MessageTypeImage, MessageTypeFile, MessageTypeVideo, MessageTypeAudio:
		return t, nil
	default:
		return "", ErrInvalidMessageType
	}
}

// Attachment references an uploaded blob.
type Attachment struct {
	URL  string `json:"url"`
	Name string `json:"name,omitempty"`
	Size int64  `json:"size,omitempty"`
}

// Message is an immutable log entry in a conversation.
// Nonce is the client's correlation token; it is echoed on broadcast and never stored.
type Message struct {
	ID             string
	Seq            int64
	ConversationID string
	SenderID       string
	Type           MessageType
	Text           string
	Attachments    []Attachment
	CreatedAt      time.Time
	Nonce          string
}

// NewMessage normalizes content and rejects empty messages.
func NewMessage(m Message) (Message, error) {
	if m.ConversationID == "" || m.SenderID == "" {
		return Message{}, errors.New("conversation_id and sender_id are required")
	}
	if m.Type == "" {
		m.Type = MessageTypeText
	}
	if _, err := ParseMessageType(string(m.Type)); err != nil {
		return Message{}, err
	}

	m.Text = strings.TrimSpace(m.Text)

	atts := m.Attachments[:0:0]
	for _, a := range m.Attachments {
		if a.URL = strings.TrimSpace(a.URL); a.URL != "" {
			atts = append(atts, a)
		}
	}
	m.Attachments = atts

	if m.Text == "" && len(m.Attachments) == 0 {
		return Message{}, ErrEmptyMessage
	}
	return m, nil
}
