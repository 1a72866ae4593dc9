package usecase

import (
	"context"
	"time"

	"go-messenger/internal/pkg/apperr"
	chat "go-messenger/internal/pkg/chat/application/domain"
	repository "go-messenger/internal/pkg/chat/persistence/repository/port"
)

type CreateGroupInput struct {
	CreatorID string
	Name      string
	AvatarURL string
	MemberIDs []string
}

// CreateGroupUseCase creates a group together with its linked group conversation.
type CreateGroupUseCase struct {
	Repo repository.ChatRepository
	Now  func() time.Time
}

func NewCreateGroupUseCase(repo repository.ChatRepository) *CreateGroupUseCase {
	return &CreateGroupUseCase{Repo: repo, Now: time.Now}
}

func (uc *CreateGroupUseCase) Execute(ctx context.Context, in CreateGroupInput) (chat.Group, chat.Conversation, error) {
	if in.CreatorID == "" {
		return chat.Group{}, chat.Conversation{}, apperr.Validation("creator is required")
	}
	for _, id := range in.MemberIDs {
		if !validID(id) {
			return chat.Group{}, chat.Conversation{}, apperr.Validation("invalid member id %q", id)
		}
	}
	now := uc.Now()
	g, members, err := chat.NewGroup(in.Name, in.AvatarURL, in.CreatorID, in.MemberIDs, now)
	if err != nil {
		return chat.Group{}, chat.Conversation{}, domainError(err)
	}
	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}

	g, conv, err := uc.Repo.CreateGroup(ctx, g, chat.NewGroupConversation(g.Name, ids, now), members)
	if err != nil {
		return chat.Group{}, chat.Conversation{}, apperr.Persistence(err)
	}
	return g, conv, nil
}
