package usecase

import (
	"context"

	"go-messenger/internal/pkg/apperr"
	repository "go-messenger/internal/repository/port"
)

// BlockUserUseCase blocks another user and ends any friendship with them.
// A block in either direction stops direct messages between the pair.
type BlockUserUseCase struct {
	Repo repository.UserRepository
}

func NewBlockUserUseCase(repo repository.UserRepository) *BlockUserUseCase {
	return &BlockUserUseCase{Repo: repo}
}

func (uc *BlockUserUseCase) Execute(ctx context.Context, in RelationInput) error {
	target, err := pairInput(in.CallerID, in.UserID)
	if err != nil {
		return err
	}
	if _, err := uc.Repo.FindByID(ctx, target); err != nil {
		return repoError(err)
	}
	if err := uc.Repo.Block(ctx, in.CallerID, target); err != nil {
		return apperr.Persistence(err)
	}
	return nil
}

type UnblockUserUseCase struct {
	Repo repository.UserRepository
}

func NewUnblockUserUseCase(repo repository.UserRepository) *UnblockUserUseCase {
	return &UnblockUserUseCase{Repo: repo}
}

func (uc *UnblockUserUseCase) Execute(ctx context.Context, in RelationInput) error {
	target, err := pairInput(in.CallerID, in.UserID)
	if err != nil {
		return err
	}
	if err := uc.Repo.Unblock(ctx, in.CallerID, target); err != nil {
		return apperr.Persistence(err)
	}
	return nil
}

type ListBlockedUseCase struct {
	Repo repository.UserRepository
}

func NewListBlockedUseCase(repo repository.UserRepository) *ListBlockedUseCase {
	return &ListBlockedUseCase{Repo: repo}
}

func (uc *ListBlockedUseCase) Execute(ctx context.Context, userID string) ([]repository.User, error) {
	blocked, err := uc.Repo.ListBlocked(ctx, userID)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return blocked, nil
}
