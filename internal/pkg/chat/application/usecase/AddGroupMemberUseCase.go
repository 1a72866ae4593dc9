package usecase

import (
	"context"
	"time"

	"go-messenger/internal/pkg/apperr"
	chat "go-messenger/internal/pkg/chat/application/domain"
	repository "go-messenger/internal/pkg/chat/persistence/repository/port"
)

type AddGroupMemberInput struct {
	GroupID  string
	CallerID string
	UserID   string
}

// AddGroupMemberUseCase lets an existing member add another user as a plain member.
// The user also joins the group's conversation.
type AddGroupMemberUseCase struct {
	Repo repository.ChatRepository
	Now  func() time.Time
}

func NewAddGroupMemberUseCase(repo repository.ChatRepository) *AddGroupMemberUseCase {
	return &AddGroupMemberUseCase{Repo: repo, Now: time.Now}
}

func (uc *AddGroupMemberUseCase) Execute(ctx context.Context, in AddGroupMemberInput) (chat.Group, error) {
	if !validID(in.GroupID) {
		return chat.Group{}, apperr.Validation("invalid group id")
	}
	if !validID(in.UserID) {
		return chat.Group{}, apperr.Validation("invalid userId")
	}
	g, err := uc.Repo.GetGroup(ctx, in.GroupID)
	if err != nil {
		return chat.Group{}, repoError(err, "group")
	}
	if _, err := loadMemberConversation(ctx, uc.Repo, g.ConversationID, in.CallerID); err != nil {
		return chat.Group{}, err
	}

	err = uc.Repo.AddGroupMember(ctx, chat.GroupMember{
		GroupID:   g.ID,
		UserID:    in.UserID,
		Role:      chat.GroupRoleMember,
		CreatedAt: uc.Now(),
	})
	if err != nil {
		return chat.Group{}, repoError(err, "group")
	}
	g, err = uc.Repo.GetGroup(ctx, in.GroupID)
	if err != nil {
		return chat.Group{}, repoError(err, "group")
	}
	return g, nil
}
