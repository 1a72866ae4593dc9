package chat

import (
	"errors"
	"time"
)

// Domain-level errors for chat behaviors
var (
	ErrInvalidConversation = errors.New("chat: conversation/message mismatch")
	ErrNotParticipant      = errors.New("chat: sender is not a participant in the conversation")
	ErrUserBlocked         = errors.New("chat: message not allowed because one of the parties is blocked")
	ErrEmptyMessage        = errors.New("chat: empty message (no text or attachment)")
)

// Chat is the domain aggregate for a conversation and its invariants.
//
// The application layer hydrates it with the conversation, the latest known
// message timestamp and block state before invoking PostMessage. Persistence
// is handled by repositories outside the domain.
type Chat struct {
	Conversation  Conversation
	LastMessageAt time.Time
	Blocks        Blocks
}

// NewChat hydrates the aggregate. watermark is the newest timestamp already
// assigned in this conversation by this process, if any.
func NewChat(conv Conversation, watermark time.Time, blocks Blocks) *Chat {
	last := conv.LastMessageAt
	if watermark.After(last) {
		last = watermark
	}
	return &Chat{Conversation: conv, LastMessageAt: last, Blocks: blocks}
}

// PostMessage applies domain rules and returns a validated message ready to persist.
//
// Validations:
//   - Conversation/message identity must match
//   - Sender must be a member
//   - In direct conversations, neither party may have blocked the other
//   - Message must carry text or at least one attachment
//
// The timestamp is assigned here at microsecond precision and always moves
// forward: when the clock has not advanced past LastMessageAt the message is
// stamped one microsecond later. On success LastMessageAt advances.
func (c *Chat) PostMessage(m Message, now time.Time) (Message, error) {
	if m.ConversationID == "" || c.Conversation.ID == "" || m.ConversationID != c.Conversation.ID {
		return Message{}, ErrInvalidConversation
	}
	if !c.Conversation.HasMember(m.SenderID) {
		return Message{}, ErrNotParticipant
	}
	if !c.Conversation.IsGroup && c.Blocks.Any() {
		return Message{}, ErrUserBlocked
	}

	m, err := NewMessage(m)
	if err != nil {
		return Message{}, err
	}

	if now.IsZero() {
		now = time.Now()
	}
	ts := now.UTC().Truncate(time.Microsecond)
	if !c.LastMessageAt.IsZero() && !ts.After(c.LastMessageAt) {
		ts = c.LastMessageAt.UTC().Truncate(time.Microsecond).Add(time.Microsecond)
	}
	m.CreatedAt = ts
	c.LastMessageAt = ts
	return m, nil
}
