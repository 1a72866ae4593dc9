package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-messenger/internal/infrastructure/auth"
	cacheport "go-messenger/internal/infrastructure/cache/port"
	qport "go-messenger/internal/infrastructure/queue/port"
	"go-messenger/internal/infrastructure/realtime"
	"go-messenger/internal/pkg/chat/application/task"
	chatUC "go-messenger/internal/pkg/chat/application/usecase"
	chatRepo "go-messenger/internal/pkg/chat/persistence/repository/port"
	chatController "go-messenger/internal/pkg/chat/presentation/controller"
	chatHTTP "go-messenger/internal/pkg/chat/presentation/http"
	ledgerUC "go-messenger/internal/pkg/ledger/application/usecase"
	ledgerRepo "go-messenger/internal/pkg/ledger/persistence/repository/port"
	ledgerHTTP "go-messenger/internal/pkg/ledger/presentation/http"
	notificationUC "go-messenger/internal/pkg/notification/application/usecase"
	notificationRepo "go-messenger/internal/pkg/notification/persistence/repository/port"
	notificationHTTP "go-messenger/internal/pkg/notification/presentation/http"
	userUC "go-messenger/internal/pkg/user/application/usecase"
	userHTTP "go-messenger/internal/pkg/user/presentation/http"
	userAdapter "go-messenger/internal/repository/adapter"
	userRepo "go-messenger/internal/repository/port"
)

// Deps are the process-wide collaborators the v1 API is built from.
type Deps struct {
	Verifier      *auth.Verifier
	Gateway       *realtime.Gateway
	Chat          chatRepo.ChatRepository
	Users         userRepo.UserRepository
	Notifications notificationRepo.NotificationRepository
	Ledger        ledgerRepo.LedgerRepository
	Cache         cacheport.Cache
	// Queue carries member notification after each send; Worker executes it.
	Queue          qport.Client
	Worker         qport.Server
	PersistTimeout time.Duration
	AllowedOrigins []string
	Log            *zap.Logger
}

// RegisterRoutes mounts all version 1 API routes under /api/v1
func RegisterRoutes(r *gin.Engine, d Deps) {
	directory := userAdapter.NewUserDirectory(d.Users, d.Cache, d.Log)
	deliver := notificationUC.NewDeliverNotificationUseCase(d.Notifications, d.Gateway, d.Log)

	task.RegisterNotifyMembersTask(d.Worker, chatUC.NewNotifyMembersUseCase(deliver, d.Log))
	send := chatUC.NewSendMessageUseCase(d.Chat, directory, d.Gateway, task.NewQueueNotifier(d.Queue), d.PersistTimeout, d.Log)

	v1 := r.Group("/api/v1")
	v1.Use(auth.Middleware(d.Verifier))

	chatHTTP.RegisterRoutes(v1, chatHTTP.UseCases{
		SendMessage:        send,
		GetMessage:         chatUC.NewGetMessageUseCase(d.Chat),
		ListConversations:  chatUC.NewListConversationsUseCase(d.Chat),
		CreateConversation: chatUC.NewCreateConversationUseCase(d.Chat),
		GetConversation:    chatUC.NewGetConversationUseCase(d.Chat),
		ClearHistory:       chatUC.NewClearHistoryUseCase(d.Chat, send),
		MuteConversation:   chatUC.NewMuteConversationUseCase(d.Chat),
		CreateGroup:        chatUC.NewCreateGroupUseCase(d.Chat),
		ListGroups:         chatUC.NewListGroupsUseCase(d.Chat),
		AddGroupMember:     chatUC.NewAddGroupMemberUseCase(d.Chat),
		DeleteGroup:        chatUC.NewDeleteGroupUseCase(d.Chat, send),
	})
	chatHTTP.RegisterSocket(v1, chatController.SocketDeps{
		Gateway:        d.Gateway,
		SendMessage:    send,
		JoinRoom:       chatUC.NewJoinConversationUseCase(d.Chat),
		Typing:         chatUC.NewTypingUseCase(d.Gateway),
		Presence:       userUC.NewPresenceUseCase(d.Users, directory, d.Gateway, d.Log),
		AllowedOrigins: d.AllowedOrigins,
		PersistTimeout: d.PersistTimeout,
		Log:            d.Log,
	})

	userHTTP.RegisterRoutes(v1, userHTTP.NewUseCases(d.Users))
	notificationHTTP.RegisterRoutes(v1, d.Notifications)
	ledgerHTTP.RegisterRoutes(v1,
		ledgerUC.NewTransferUseCase(d.Ledger, deliver, d.Log),
		ledgerUC.NewGetHistoryUseCase(d.Ledger))
}
