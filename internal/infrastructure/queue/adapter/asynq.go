package adapter

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"go-messenger/internal/infrastructure/queue/port"
)

const defaultConcurrency = 10

func redisOpt(uri string) (asynq.RedisConnOpt, error) {
	if uri == "" {
		return nil, errors.New("asynq: redis url is required")
	}
	opt, err := asynq.ParseRedisURI(uri)
	if err != nil {
		return nil, fmt.Errorf("asynq: parse redis url: %w", err)
	}
	return opt, nil
}

// AsynqClient publishes tasks to Redis.
type AsynqClient struct {
	client *asynq.Client
}

var _ port.Client = (*AsynqClient)(nil)

func NewAsynqClient(redisURL string) (*AsynqClient, error) {
	opt, err := redisOpt(redisURL)
	if err != nil {
		return nil, err
	}
	return &AsynqClient{client: asynq.NewClient(opt)}, nil
}

func (a *AsynqClient) Enqueue(ctx context.Context, t port.Task, opts ...port.EnqueueOption) (string, error) {
	if t.Type == "" {
		return "", errors.New("asynq: task type is required")
	}
	info, err := a.client.EnqueueContext(ctx, asynq.NewTask(t.Type, t.Payload), toAsynqOptions(opts)...)
	if err != nil {
		return "", fmt.Errorf("asynq: enqueue %s: %w", t.Type, err)
	}
	return info.ID, nil
}

func (a *AsynqClient) Close() error { return a.client.Close() }

// toAsynqOptions merges opts left to right, later non-zero fields winning.
func toAsynqOptions(opts []port.EnqueueOption) []asynq.Option {
	if len(opts) == 0 {
		return nil
	}
	var m port.EnqueueOption
	for _, o := range opts {
		if o.Queue != "" {
			m.Queue = o.Queue
		}
		if o.MaxRetry > 0 {
			m.MaxRetry = o.MaxRetry
		}
		if o.Timeout > 0 {
			m.Timeout = o.Timeout
		}
		if o.ProcessIn > 0 {
			m.ProcessIn = o.ProcessIn
		}
	}

	out := make([]asynq.Option, 0, 4)
	if m.Queue != "" {
		out = append(out, asynq.Queue(m.Queue))
	}
	if m.MaxRetry > 0 {
		out = append(out, asynq.MaxRetry(m.MaxRetry))
	}
	if m.Timeout > 0 {
		out = append(out, asynq.Timeout(m.Timeout))
	}
	if m.ProcessIn > 0 {
		out = append(out, asynq.ProcessIn(m.ProcessIn))
	}
	return out
}

// AsynqServerConfig tunes the worker pool. Queues is a weight list such as
// "chat=3,default=1"; empty consumes chat and default equally.
type AsynqServerConfig struct {
	RedisURL    string
	Concurrency int
	Queues      string
}

// AsynqServer runs registered handlers against Redis-backed queues.
type AsynqServer struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

var _ port.Server = (*AsynqServer)(nil)

func NewAsynqServer(cfg AsynqServerConfig, log *zap.Logger) (*AsynqServer, error) {
	opt, err := redisOpt(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	queues := parseQueueWeights(cfg.Queues)
	if len(queues) == 0 {
		queues = map[string]int{"chat": 1, "default": 1}
	}

	log = log.With(zap.String("module", "asynq"))
	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: cfg.Concurrency,
		Queues:      queues,
		ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, task *asynq.Task, err error) {
			log.Error("task failed", zap.String("type", task.Type()), zap.Error(err))
		}),
	})
	return &AsynqServer{server: srv, mux: asynq.NewServeMux()}, nil
}

func (s *AsynqServer) Register(taskType string, h port.Handler) {
	s.mux.HandleFunc(taskType, func(ctx context.Context, t *asynq.Task) error {
		return h(ctx, port.Task{Type: t.Type(), Payload: t.Payload()})
	})
}

// Run processes tasks until ctx ends, then waits for in-flight handlers.
func (s *AsynqServer) Run(ctx context.Context) error {
	if err := s.server.Start(s.mux); err != nil {
		return err
	}
	<-ctx.Done()
	s.server.Shutdown()
	return nil
}

func (s *AsynqServer) Stop(context.Context) error {
	s.server.Shutdown()
	return nil
}

// parseQueueWeights reads "name=weight" pairs. A missing or invalid weight is 1
// and entries without a name are dropped.
func parseQueueWeights(s string) map[string]int {
	out := make(map[string]int)
	for _, field := range strings.Split(s, ",") {
		name, weight, hasWeight := strings.Cut(strings.TrimSpace(field), "=")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		w := 1
		if hasWeight {
			if n, err := strconv.Atoi(strings.TrimSpace(weight)); err == nil && n > 0 {
				w = n
			}
		}
		out[name] = w
	}
	return out
}
