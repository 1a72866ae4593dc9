package adapter

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"go-messenger/internal/infrastructure/queue/port"
)

// InlineQueue runs handlers synchronously inside Enqueue. It satisfies both
// port.Client and port.Server and backs single-process deployments without Redis.
type InlineQueue struct {
	mu       sync.RWMutex
	handlers map[string]port.Handler
}

func NewInlineQueue() *InlineQueue {
	return &InlineQueue{handlers: make(map[string]port.Handler)}
}

var (
	_ port.Client = (*InlineQueue)(nil)
	_ port.Server = (*InlineQueue)(nil)
)

// Enqueue executes the registered handler before returning. The handler's error
// is returned to the caller since there is no retry.
func (q *InlineQueue) Enqueue(ctx context.Context, t port.Task, _ ...port.EnqueueOption) (string, error) {
	if t.Type == "" {
		return "", errors.New("inline queue: task type is required")
	}
	q.mu.RLock()
	h, ok := q.handlers[t.Type]
	q.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("inline queue: no handler for %q", t.Type)
	}
	id := uuid.NewString()
	if err := h(ctx, t); err != nil {
		return id, err
	}
	return id, nil
}

func (q *InlineQueue) Register(taskType string, h port.Handler) {
	q.mu.Lock()
	q.handlers[taskType] = h
	q.mu.Unlock()
}

// Run blocks until ctx is canceled.
func (q *InlineQueue) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func (q *InlineQueue) Stop(context.Context) error { return nil }

func (q *InlineQueue) Close() error { return nil }
