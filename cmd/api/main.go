package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	v1 "go-messenger/cmd/api/router/v1"
	"go-messenger/internal/config"
	"go-messenger/internal/infrastructure/auth"
	cacheAdapter "go-messenger/internal/infrastructure/cache/adapter"
	cacheport "go-messenger/internal/infrastructure/cache/port"
	"go-messenger/internal/infrastructure/database"
	"go-messenger/internal/infrastructure/logger"
	queueAdapter "go-messenger/internal/infrastructure/queue/adapter"
	qport "go-messenger/internal/infrastructure/queue/port"
	"go-messenger/internal/infrastructure/realtime"
	chatAdapter "go-messenger/internal/pkg/chat/persistence/repository/adapter"
	ledgerAdapter "go-messenger/internal/pkg/ledger/persistence/repository/adapter"
	notificationAdapter "go-messenger/internal/pkg/notification/persistence/repository/adapter"
	userAdapter "go-messenger/internal/repository/adapter"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		// No logger yet.
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Environment: cfg.AppEnv,
		LogLevel:    cfg.LogLevel,
		ServiceName: cfg.AppName,
		InstanceID:  cfg.InstanceID,
	})
	if err != nil {
		_, _ = os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	var checks []func(context.Context) error
	deps := v1.Deps{
		Verifier:       auth.NewVerifier(cfg.JWTSecret),
		PersistTimeout: cfg.PersistTimeout,
		AllowedOrigins: cfg.AllowedOrigins,
		Log:            log,
	}

	// Storage
	if cfg.InMemory() {
		log.Warn("DB_URL not set, using in-memory storage")
		users := userAdapter.NewMemoryUserRepository()
		deps.Users = users
		deps.Chat = chatAdapter.NewMemoryChatRepository()
		deps.Notifications = notificationAdapter.NewMemoryNotificationRepository()
		deps.Ledger = ledgerAdapter.NewMemoryLedgerRepository(users)
	} else {
		pool, err := database.ConnectWithRetry(ctx, cfg.DBURL, 30*time.Second, func(err error, next time.Duration) {
			log.Warn("database not ready", zap.Duration("retry_in", next), zap.Error(err))
		})
		if err != nil {
			return err
		}
		defer pool.Close()
		checks = append(checks, pool.Ping)
		if err := database.Migrate(ctx, pool); err != nil {
			return err
		}
		deps.Users = userAdapter.NewPgUserRepository(pool)
		deps.Chat = chatAdapter.NewPgChatRepository(pool)
		deps.Notifications = notificationAdapter.NewPgNotificationRepository(pool)
		deps.Ledger = ledgerAdapter.NewPgLedgerRepository(pool)
	}

	// Cache, cross-instance bus and queue
	var (
		cache  cacheport.Cache
		bus    realtime.Bus
		client qport.Client
		worker qport.Server
	)
	if cfg.RedisEnabled() {
		rdb, err := cacheAdapter.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		cache = cacheAdapter.NewRedisCache(rdb, cfg.AppName+":")
		bus = realtime.NewRedisBus(rdb, cfg.AppName+":realtime", log)

		asynqClient, err := queueAdapter.NewAsynqClient(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer asynqClient.Close()
		asynqServer, err := queueAdapter.NewAsynqServer(queueAdapter.AsynqServerConfig{
			RedisURL:    cfg.RedisURL,
			Concurrency: cfg.AsynqConcurrency,
			Queues:      cfg.AsynqQueues,
		}, log)
		if err != nil {
			return err
		}
		client, worker = asynqClient, asynqServer
	} else {
		log.Info("REDIS_URL not set, running single-instance with in-process cache and queue")
		cache = cacheAdapter.NewMemoryCache()
		inline := queueAdapter.NewInlineQueue()
		client, worker = inline, inline
	}
	defer cache.Close()
	checks = append(checks, cache.Ping)

	router := realtime.NewRouter()
	defer router.Close()
	deps.Gateway = realtime.NewGateway(router, bus, cfg.InstanceID, log)
	deps.Cache = cache
	deps.Queue = client
	deps.Worker = worker

	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), logger.GinMiddleware(log))
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "OK",
		})
	})
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		for _, check := range checks {
			if err := check(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	v1.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return deps.Gateway.Run(gctx) })
	g.Go(func() error { return worker.Run(gctx) })
	g.Go(func() error {
		log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
