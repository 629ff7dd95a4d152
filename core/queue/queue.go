package queue

import (
	"context"
	"time"

	"mediation-api/core/logger"
)

// Task is a background job message with a stable type and opaque payload bytes.
type Task struct {
	Type    string
	Payload []byte
}

// Handler processes a Task. A non-nil error asks the backend to retry, so
// handlers must be idempotent.
type Handler func(ctx context.Context, task Task) error

// EnqueueOption controls enqueue behavior. Zero values mean "unspecified".
type EnqueueOption struct {
	Queue     string
	MaxRetry  int
	ProcessIn time.Duration
	TaskID    string
}

type Client interface {
	Enqueue(ctx context.Context, t Task, opts ...EnqueueOption) (id string, err error)
	Close() error
}

type Server interface {
	Register(taskType string, h Handler)
	Run(ctx context.Context) error
}

// NoopClient drops every task. It is used when no queue backend is configured.
type NoopClient struct{}

var _ Client = NoopClient{}

func (NoopClient) Enqueue(_ context.Context, t Task, _ ...EnqueueOption) (string, error) {
	logger.Debug("Queue:Noop:Dropped", "type", t.Type)
	return "", nil
}

func (NoopClient) Close() error {
	return nil
}
