package port

import (
	"context"
	"time"
)

// Task is one unit of deferred work. Payload is JSON owned by the task's package.
type Task struct {
	Type    string
	Payload []byte
}

// Handler runs a task. A returned error makes a retrying backend redeliver it.
type Handler func(ctx context.Context, task Task) error

// EnqueueOption tunes one enqueue. Zero fields keep the backend default; when
// several options are passed, later non-zero fields win.
type EnqueueOption struct {
	Queue     string
	MaxRetry  int
	Timeout   time.Duration
	ProcessIn time.Duration
}

// Client hands tasks to the worker side.
type Client interface {
	Enqueue(ctx context.Context, t Task, opts ...EnqueueOption) (id string, err error)
	Close() error
}

// Server executes registered handlers. Run blocks until ctx is canceled.
type Server interface {
	Register(taskType string, h Handler)
	Run(ctx context.Context) error
	Stop(ctx context.Context) error
}
