package usecase

import (
	"context"

	"go-messenger/internal/pkg/apperr"
	repository "go-messenger/internal/repository/port"
)

// RelationInput names the caller and the user they act on.
type RelationInput struct {
	CallerID string
	UserID   string
}

// AddFriendUseCase records a reciprocal friendship with an existing user.
type AddFriendUseCase struct {
	Repo repository.UserRepository
}

func NewAddFriendUseCase(repo repository.UserRepository) *AddFriendUseCase {
	return &AddFriendUseCase{Repo: repo}
}

func (uc *AddFriendUseCase) Execute(ctx context.Context, in RelationInput) error {
	target, err := pairInput(in.CallerID, in.UserID)
	if err != nil {
		return err
	}
	if _, err := uc.Repo.FindByID(ctx, target); err != nil {
		return repoError(err)
	}
	if err := uc.Repo.AddFriendship(ctx, in.CallerID, target); err != nil {
		return apperr.Persistence(err)
	}
	return nil
}

// RemoveFriendUseCase drops the friendship from both sides.
type RemoveFriendUseCase struct {
	Repo repository.UserRepository
}

func NewRemoveFriendUseCase(repo repository.UserRepository) *RemoveFriendUseCase {
	return &RemoveFriendUseCase{Repo: repo}
}

func (uc *RemoveFriendUseCase) Execute(ctx context.Context, in RelationInput) error {
	target, err := pairInput(in.CallerID, in.UserID)
	if err != nil {
		return err
	}
	if err := uc.Repo.RemoveFriendship(ctx, in.CallerID, target); err != nil {
		return apperr.Persistence(err)
	}
	return nil
}

type ListFriendsUseCase struct {
	Repo repository.UserRepository
}

func NewListFriendsUseCase(repo repository.UserRepository) *ListFriendsUseCase {
	return &ListFriendsUseCase{Repo: repo}
}

func (uc *ListFriendsUseCase) Execute(ctx context.Context, userID string) ([]repository.User, error) {
	friends, err := uc.Repo.ListFriends(ctx, userID)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return friends, nil
}
