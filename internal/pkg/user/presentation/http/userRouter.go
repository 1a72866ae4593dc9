package http

import (
	"github.com/gin-gonic/gin"

	"go-messenger/internal/pkg/user/application/usecase"
	"go-messenger/internal/pkg/user/presentation/controller"
	repository "go-messenger/internal/repository/port"
)

// UseCases are the user slice's use cases.
type UseCases struct {
	Search       *usecase.SearchUsersUseCase
	GetMe        *usecase.GetMeUseCase
	AddFriend    *usecase.AddFriendUseCase
	RemoveFriend *usecase.RemoveFriendUseCase
	ListFriends  *usecase.ListFriendsUseCase
	Block        *usecase.BlockUserUseCase
	Unblock      *usecase.UnblockUserUseCase
	ListBlocked  *usecase.ListBlockedUseCase
}

// NewUseCases builds every user use case over one repository.
func NewUseCases(repo repository.UserRepository) UseCases {
	return UseCases{
		Search:       usecase.NewSearchUsersUseCase(repo),
		GetMe:        usecase.NewGetMeUseCase(repo),
		AddFriend:    usecase.NewAddFriendUseCase(repo),
		RemoveFriend: usecase.NewRemoveFriendUseCase(repo),
		ListFriends:  usecase.NewListFriendsUseCase(repo),
		Block:        usecase.NewBlockUserUseCase(repo),
		Unblock:      usecase.NewUnblockUserUseCase(repo),
		ListBlocked:  usecase.NewListBlockedUseCase(repo),
	}
}

// RegisterRoutes registers user, friend and block endpoints under the given
// authenticated router group.
func RegisterRoutes(g *gin.RouterGroup, uc UseCases) {
	g.GET("/users", controller.NewSearchUsersController(uc.Search).Handle())
	g.GET("/users/me", controller.NewGetMeController(uc.GetMe).Handle())

	friends := g.Group("/friends")
	friends.POST("", controller.NewRelationBodyController(uc.AddFriend).Handle())
	friends.GET("", controller.NewListRelationController(uc.ListFriends, "friends").Handle())
	friends.DELETE("/:id", controller.NewRelationParamController(uc.RemoveFriend).Handle())
	friends.POST("/block", controller.NewRelationBodyController(uc.Block).Handle())
	friends.GET("/blocked", controller.NewListRelationController(uc.ListBlocked, "blocked").Handle())
	friends.DELETE("/block/:id", controller.NewRelationParamController(uc.Unblock).Handle())
}
