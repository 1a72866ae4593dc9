package usecase

import (
	"context"

	repository "go-messenger/internal/repository/port"
)

type GetMeUseCase struct {
	Repo repository.UserRepository
}

func NewGetMeUseCase(repo repository.UserRepository) *GetMeUseCase {
	return &GetMeUseCase{Repo: repo}
}

func (uc *GetMeUseCase) Execute(ctx context.Context, userID string) (repository.User, error) {
	u, err := uc.Repo.FindByID(ctx, userID)
	if err != nil {
		return repository.User{}, repoError(err)
	}
	return *u, nil
}
