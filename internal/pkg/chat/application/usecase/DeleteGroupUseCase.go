package usecase

import (
	"context"
	"errors"

	"go-messenger/internal/pkg/apperr"
	repository "go-messenger/internal/pkg/chat/persistence/repository/port"
)

var errNotGroupOwner = errors.New("chat: only the group owner can delete it")

type DeleteGroupInput struct {
	GroupID  string
	CallerID string
}

// DeleteGroupUseCase removes a group and everything linked to it. Owner only.
type DeleteGroupUseCase struct {
	Repo      repository.ChatRepository
	Forgetter HistoryForgetter
}

func NewDeleteGroupUseCase(repo repository.ChatRepository, forgetter HistoryForgetter) *DeleteGroupUseCase {
	return &DeleteGroupUseCase{Repo: repo, Forgetter: forgetter}
}

func (uc *DeleteGroupUseCase) Execute(ctx context.Context, in DeleteGroupInput) error {
	if !validID(in.GroupID) {
		return apperr.Validation("invalid group id")
	}
	g, err := uc.Repo.GetGroup(ctx, in.GroupID)
	if err != nil {
		return repoError(err, "group")
	}
	if !g.IsOwner(in.CallerID) {
		return apperr.Forbidden(errNotGroupOwner)
	}
	if err := uc.Repo.DeleteGroup(ctx, g.ID); err != nil {
		return repoError(err, "group")
	}
	if uc.Forgetter != nil {
		uc.Forgetter.Forget(g.ConversationID)
	}
	return nil
}
