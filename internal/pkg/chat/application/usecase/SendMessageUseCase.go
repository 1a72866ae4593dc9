package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"go-messenger/internal/infrastructure/realtime"
	"go-messenger/internal/pkg/apperr"
	chat "go-messenger/internal/pkg/chat/application/domain"
	"go-messenger/internal/pkg/chat/application/dto"
	repository "go-messenger/internal/pkg/chat/persistence/repository/port"
)

// ConversationPublisher broadcasts an event to a conversation's live group.
type ConversationPublisher interface {
	PublishToConversation(ctx context.Context, conversationID, eventType string, payload any, excludeUserID string) error
}

// UserDirectory resolves display names and block state.
type UserDirectory interface {
	DisplayName(ctx context.Context, userID string) string
	IsBlocked(ctx context.Context, blockerID, blockedID string) (bool, error)
}

// MemberNotifier hands the notification step of a send to its executor.
type MemberNotifier interface {
	NotifyMembers(ctx context.Context, in NotifyMembersInput) error
}

// SendMessageInput carries the data needed to send a new message.
type SendMessageInput struct {
	ConversationID string
	SenderID       string
	Type           string
	Text           string
	Attachments    []chat.Attachment
	Nonce          string
}

// NewMessageEvent is the payload of new_message.
type NewMessageEvent struct {
	Message dto.Message `json:"message"`
}

// SendMessageUseCase is the fan-out engine: it persists a message, advances
// conversation activity, broadcasts the confirmed message to the
// conversation's group and notifies the other members.
type SendMessageUseCase struct {
	Repo           repository.ChatRepository
	Users          UserDirectory
	Publisher      ConversationPublisher
	Notifier       MemberNotifier
	PersistTimeout time.Duration
	Now            func() time.Time

	log   *zap.Logger
	locks conversationLocks
	marks watermarks
}

func NewSendMessageUseCase(repo repository.ChatRepository, users UserDirectory, pub ConversationPublisher, notifier MemberNotifier, persistTimeout time.Duration, log *zap.Logger) *SendMessageUseCase {
	if persistTimeout <= 0 {
		persistTimeout = 5 * time.Second
	}
	return &SendMessageUseCase{
		Repo:           repo,
		Users:          users,
		Publisher:      pub,
		Notifier:       notifier,
		PersistTimeout: persistTimeout,
		Now:            time.Now,
		log:            log.With(zap.String("usecase", "send_message")),
	}
}

// Execute runs persist, touch, broadcast and notify in that order. Only a
// failure up to and including persistence fails the call; later steps are
// logged and skipped.
func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (*chat.Message, error) {
	if in.ConversationID == "" || in.SenderID == "" {
		return nil, apperr.Validation("conversationId is required")
	}
	msgType, err := chat.ParseMessageType(in.Type)
	if err != nil {
		return nil, apperr.Validation("unknown message type %q", in.Type)
	}

	unlock := uc.locks.lock(in.ConversationID)
	saved, conv, err := uc.persist(ctx, in, msgType)
	if err != nil {
		unlock()
		return nil, err
	}
	uc.touch(ctx, saved)
	saved.Nonce = in.Nonce
	uc.broadcast(ctx, saved)
	unlock()

	uc.notify(ctx, conv, saved)
	return &saved, nil
}

func (uc *SendMessageUseCase) persist(ctx context.Context, in SendMessageInput, msgType chat.MessageType) (chat.Message, chat.Conversation, error) {
	pctx, cancel := context.WithTimeout(ctx, uc.PersistTimeout)
	defer cancel()

	conv, err := loadMemberConversation(pctx, uc.Repo, in.ConversationID, in.SenderID)
	if err != nil {
		return chat.Message{}, chat.Conversation{}, err
	}

	blocks, err := uc.blocks(pctx, conv, in.SenderID)
	if err != nil {
		return chat.Message{}, chat.Conversation{}, apperr.Persistence(err)
	}

	aggregate := chat.NewChat(conv, uc.marks.get(conv.ID), blocks)
	msg, err := aggregate.PostMessage(chat.Message{
		ConversationID: conv.ID,
		SenderID:       in.SenderID,
		Type:           msgType,
		Text:           in.Text,
		Attachments:    in.Attachments,
	}, uc.Now())
	if err != nil {
		return chat.Message{}, chat.Conversation{}, domainError(err)
	}

	saved, err := uc.Repo.SaveMessage(pctx, msg)
	if err != nil {
		return chat.Message{}, chat.Conversation{}, apperr.Persistence(err)
	}
	uc.marks.set(conv.ID, saved.CreatedAt)
	return saved, conv, nil
}

func (uc *SendMessageUseCase) blocks(ctx context.Context, conv chat.Conversation, senderID string) (chat.Blocks, error) {
	if conv.IsGroup || uc.Users == nil {
		return chat.Blocks{}, nil
	}
	partner := conv.Partner(senderID)
	if partner == chat.SelfPartner {
		return chat.Blocks{}, nil
	}
	var (
		b   chat.Blocks
		err error
	)
	if b.SenderBlockedPartner, err = uc.Users.IsBlocked(ctx, senderID, partner); err != nil {
		return chat.Blocks{}, err
	}
	if b.PartnerBlockedSender, err = uc.Users.IsBlocked(ctx, partner, senderID); err != nil {
		return chat.Blocks{}, err
	}
	return b, nil
}

func (uc *SendMessageUseCase) touch(ctx context.Context, m chat.Message) {
	tctx, cancel := context.WithTimeout(ctx, uc.PersistTimeout)
	defer cancel()
	if err := uc.Repo.TouchLastMessageAt(tctx, m.ConversationID, m.CreatedAt); err != nil {
		uc.log.Warn("lastMessageAt update failed",
			zap.String("conversation_id", m.ConversationID),
			zap.String("message_id", m.ID),
			zap.Error(err))
	}
}

func (uc *SendMessageUseCase) broadcast(ctx context.Context, m chat.Message) {
	if uc.Publisher == nil {
		return
	}
	err := uc.Publisher.PublishToConversation(ctx, m.ConversationID, realtime.EventNewMessage, NewMessageEvent{Message: dto.FromMessage(m)}, "")
	if err != nil {
		uc.log.Warn("message broadcast incomplete",
			zap.String("conversation_id", m.ConversationID),
			zap.String("message_id", m.ID),
			zap.Error(err))
	}
}

func (uc *SendMessageUseCase) notify(ctx context.Context, conv chat.Conversation, m chat.Message) {
	if uc.Notifier == nil {
		return
	}
	recipients := make([]string, 0, len(conv.Members))
	for _, id := range conv.Members {
		if id == m.SenderID || conv.IsMutedBy(id) {
			continue
		}
		recipients = append(recipients, id)
	}
	if len(recipients) == 0 {
		return
	}

	senderName := m.SenderID
	if uc.Users != nil {
		senderName = uc.Users.DisplayName(ctx, m.SenderID)
	}
	m.Nonce = ""
	err := uc.Notifier.NotifyMembers(ctx, NotifyMembersInput{Message: m, SenderName: senderName, RecipientIDs: recipients})
	if err != nil {
		uc.log.Error("member notification failed",
			zap.String("conversation_id", m.ConversationID),
			zap.String("message_id", m.ID),
			zap.Error(err))
	}
}

// Forget drops per-conversation ordering state, used after the conversation's history is deleted.
func (uc *SendMessageUseCase) Forget(conversationID string) {
	uc.marks.forget(conversationID)
}
