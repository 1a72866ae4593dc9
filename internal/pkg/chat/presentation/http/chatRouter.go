package http

import (
	"github.com/gin-gonic/gin"

	"go-messenger/internal/pkg/chat/application/usecase"
	"go-messenger/internal/pkg/chat/presentation/controller"
)

// UseCases are the chat slice's use cases, constructed once at startup.
type UseCases struct {
	SendMessage        *usecase.SendMessageUseCase
	GetMessage         *usecase.GetMessageUseCase
	ListConversations  *usecase.ListConversationsUseCase
	CreateConversation *usecase.CreateConversationUseCase
	GetConversation    *usecase.GetConversationUseCase
	ClearHistory       *usecase.ClearHistoryUseCase
	MuteConversation   *usecase.MuteConversationUseCase
	CreateGroup        *usecase.CreateGroupUseCase
	ListGroups         *usecase.ListGroupsUseCase
	AddGroupMember     *usecase.AddGroupMemberUseCase
	DeleteGroup        *usecase.DeleteGroupUseCase
}

// RegisterRoutes registers chat-related HTTP endpoints under the given
// authenticated router group.
func RegisterRoutes(g *gin.RouterGroup, uc UseCases) {
	conversations := g.Group("/conversations")
	conversations.GET("", controller.NewListConversationsController(uc.ListConversations).Handle())
	conversations.POST("", controller.NewCreateConversationController(uc.CreateConversation).Handle())
	conversations.GET("/:id", controller.NewGetConversationController(uc.GetConversation).Handle())
	conversations.GET("/:id/messages", controller.NewGetMessageController(uc.GetMessage).Handle())
	conversations.DELETE("/:id/messages", controller.NewClearHistoryController(uc.ClearHistory).Handle())
	conversations.POST("/:id/mute", controller.NewMuteConversationController(uc.MuteConversation).Handle())

	// POST /api/v1/messages -> send without a live socket
	g.POST("/messages", controller.NewSendMessageController(uc.SendMessage).Handle())
	g.GET("/messages/:id", controller.NewGetMessageController(uc.GetMessage).Handle())

	groups := g.Group("/groups")
	groups.POST("", controller.NewCreateGroupController(uc.CreateGroup).Handle())
	groups.GET("", controller.NewListGroupsController(uc.ListGroups).Handle())
	groups.POST("/:id/members", controller.NewAddGroupMemberController(uc.AddGroupMember).Handle())
	groups.DELETE("/:id", controller.NewDeleteGroupController(uc.DeleteGroup).Handle())
}

// RegisterSocket mounts the websocket endpoint. g must already enforce authentication.
func RegisterSocket(g *gin.RouterGroup, deps controller.SocketDeps) {
	g.GET("/ws", controller.NewChatSocketController(deps).Handle())
}
