package usecase

import (
	"context"
	"strings"

	"go-messenger/internal/pkg/apperr"
	repository "go-messenger/internal/repository/port"
)

const defaultSearchLimit = 50

type SearchUsersInput struct {
	Query string
	Limit int
}

// SearchUsersUseCase matches users by username or display name.
type SearchUsersUseCase struct {
	Repo repository.UserRepository
}

func NewSearchUsersUseCase(repo repository.UserRepository) *SearchUsersUseCase {
	return &SearchUsersUseCase{Repo: repo}
}

func (uc *SearchUsersUseCase) Execute(ctx context.Context, in SearchUsersInput) ([]repository.User, error) {
	limit := in.Limit
	if limit <= 0 || limit > defaultSearchLimit {
		limit = defaultSearchLimit
	}
	users, err := uc.Repo.Search(ctx, strings.TrimSpace(in.Query), limit)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return users, nil
}
