package dto

import (
	"time"

	chat "go-messenger/internal/pkg/chat/application/domain"
)

// Message is the wire shape of a chat message. Nonce is present only on the
// broadcast that confirms the sender's own optimistic entry.
type Message struct {
	ID             string            `json:"id"`
	Seq            int64             `json:"seq,omitempty"`
	ConversationID string            `json:"conversationId"`
	SenderID       string            `json:"senderId"`
	Type           string            `json:"type"`
	Text           string            `json:"text,omitempty"`
	Attachments    []chat.Attachment `json:"attachments"`
	CreatedAt      time.Time         `json:"createdAt"`
	Nonce          string            `json:"nonce,omitempty"`
}

type Conversation struct {
	ID            string    `json:"id"`
	Title         string    `json:"title,omitempty"`
	IsGroup       bool      `json:"isGroup"`
	Members       []string  `json:"members"`
	MutedBy       []string  `json:"mutedBy"`
	LastMessageAt time.Time `json:"lastMessageAt"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Group struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	AvatarURL      string    `json:"avatarUrl,omitempty"`
	CreatedBy      string    `json:"createdBy"`
	ConversationID string    `json:"conversationId"`
	MembersCount   int       `json:"membersCount"`
	CreatedAt      time.Time `json:"createdAt"`
}

func FromMessage(m chat.Message) Message {
	atts := m.Attachments
	if atts == nil {
		atts = []chat.Attachment{}
	}
	return Message{
		ID:             m.ID,
		Seq:            m.Seq,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Type:           string(m.Type),
		Text:           m.Text,
		Attachments:    atts,
		CreatedAt:      m.CreatedAt,
		Nonce:          m.Nonce,
	}
}

func ToMessage(d Message) chat.Message {
	return chat.Message{
		ID:             d.ID,
		Seq:            d.Seq,
		ConversationID: d.ConversationID,
		SenderID:       d.SenderID,
		Type:           chat.MessageType(d.Type),
		Text:           d.Text,
		Attachments:    d.Attachments,
		CreatedAt:      d.CreatedAt,
		Nonce:          d.Nonce,
	}
}

func FromMessages(ms []chat.Message) []Message {
	out := make([]Message, 0, len(ms))
	for _, m := range ms {
		out = append(out, FromMessage(m))
	}
	return out
}

func FromConversation(c chat.Conversation) Conversation {
	members, muted := c.Members, c.MutedBy
	if members == nil {
		members = []string{}
	}
	if muted == nil {
		muted = []string{}
	}
	return Conversation{
		ID:            c.ID,
		Title:         c.Title,
		IsGroup:       c.IsGroup,
		Members:       members,
		MutedBy:       muted,
		LastMessageAt: c.LastMessageAt,
		CreatedAt:     c.CreatedAt,
	}
}

func FromConversations(cs []chat.Conversation) []Conversation {
	out := make([]Conversation, 0, len(cs))
	for _, c := range cs {
		out = append(out, FromConversation(c))
	}
	return out
}

func FromGroup(g chat.Group) Group {
	return Group{
		ID:             g.ID,
		Name:           g.Name,
		AvatarURL:      g.AvatarURL,
		CreatedBy:      g.CreatedBy,
		ConversationID: g.ConversationID,
		MembersCount:   g.MembersCount,
		CreatedAt:      g.CreatedAt,
	}
}

func FromGroups(gs []chat.Group) []Group {
	out := make([]Group, 0, len(gs))
	for _, g := range gs {
		out = append(out, FromGroup(g))
	}
	return out
}
