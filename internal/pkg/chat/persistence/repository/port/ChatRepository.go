package repository

import (
	"context"
	"errors"
	"time"

	chat "go-messenger/internal/pkg/chat/application/domain"
)

var (
	// ErrNotFound is returned when the addressed conversation or group does not exist.
	ErrNotFound = errors.New("chat repository: not found")
	// ErrDirectConversationExists is returned when the direct pair already has a live conversation.
	ErrDirectConversationExists = errors.New("chat repository: direct conversation already exists")
)

// ChatRepository defines persistence operations for the chat domain.
// Conversations are returned with their members and muted sets populated.
type ChatRepository interface {
	CreateConversation(ctx context.Context, c chat.Conversation) (chat.Conversation, error)
	GetConversation(ctx context.Context, id string) (chat.Conversation, error)
	// FindDirectConversations returns every non-group conversation whose member
	// set is exactly {a, b}, most recently active first.
	FindDirectConversations(ctx context.Context, a, b string) ([]chat.Conversation, error)
	// ListConversationsForUser returns every conversation the user belongs to, most recently active first.
	ListConversationsForUser(ctx context.Context, userID string) ([]chat.Conversation, error)
	AddParticipant(ctx context.Context, conversationID, userID string) error
	SetMuted(ctx context.Context, conversationID, userID string, muted bool) error
	// TouchLastMessageAt advances last activity; it never moves it backwards.
	TouchLastMessageAt(ctx context.Context, conversationID string, at time.Time) error

	// SaveMessage persists m and returns it with its id and sequence assigned.
	SaveMessage(ctx context.Context, m chat.Message) (chat.Message, error)
	// GetMessagesByConversation returns up to limit messages strictly older than
	// before (when set), newest first. Ties on time are broken by sequence.
	GetMessagesByConversation(ctx context.Context, conversationID string, before *time.Time, limit int) ([]chat.Message, error)
	DeleteMessagesByConversation(ctx context.Context, conversationID string) (int64, error)

	// CreateGroup stores the group, its conversation and memberships as one unit.
	CreateGroup(ctx context.Context, g chat.Group, conv chat.Conversation, members []chat.GroupMember) (chat.Group, chat.Conversation, error)
	GetGroup(ctx context.Context, id string) (chat.Group, error)
	ListGroupsForUser(ctx context.Context, userID string) ([]chat.Group, error)
	// AddGroupMember upserts a membership and joins the user to the group's conversation.
	AddGroupMember(ctx context.Context, m chat.GroupMember) error
	// DeleteGroup removes the group, its memberships, its conversation and that conversation's messages.
	DeleteGroup(ctx context.Context, id string) error
}
