package queue

import (
	"context"
	"errors"

	"mediation-api/core/config"
	"mediation-api/core/logger"

	"github.com/hibiken/asynq"
)

// ===================== Client =====================

type AsynqClient struct {
	client *asynq.Client
}

var _ Client = (*AsynqClient)(nil)

func redisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

func NewAsynqClient(cfg config.RedisConfig) (*AsynqClient, error) {
	if cfg.Addr == "" {
		return nil, errors.New("asynq: redis addr is not set")
	}
	return &AsynqClient{client: asynq.NewClient(redisOpt(cfg))}, nil
}

func (a *AsynqClient) Enqueue(ctx context.Context, t Task, opts ...EnqueueOption) (string, error) {
	if t.Type == "" {
		return "", errors.New("asynq: task type is required")
	}
	var asynqOpts []asynq.Option
	for _, op := range opts {
		if op.Queue != "" {
			asynqOpts = append(asynqOpts, asynq.Queue(op.Queue))
		}
		if op.MaxRetry > 0 {
			asynqOpts = append(asynqOpts, asynq.MaxRetry(op.MaxRetry))
		}
		if op.ProcessIn > 0 {
			asynqOpts = append(asynqOpts, asynq.ProcessIn(op.ProcessIn))
		}
		if op.TaskID != "" {
			asynqOpts = append(asynqOpts, asynq.TaskID(op.TaskID))
		}
	}
	info, err := a.client.EnqueueContext(ctx, asynq.NewTask(t.Type, t.Payload), asynqOpts...)
	if err != nil {
		return "", err
	}
	return info.ID, nil
}

func (a *AsynqClient) Close() error {
	return a.client.Close()
}

// ===================== Server =====================

type AsynqServer struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

var _ Server = (*AsynqServer)(nil)

func NewAsynqServer(redisCfg config.RedisConfig, queueCfg config.QueueConfig) (*AsynqServer, error) {
	if redisCfg.Addr == "" {
		return nil, errors.New("asynq: redis addr is not set")
	}
	concurrency := queueCfg.Concurrency
	if concurrency <= 0 {
		concurrency = 5
	}
	srv := asynq.NewServer(redisOpt(redisCfg), asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{queueCfg.Name: 1},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger.Error("Queue:Asynq:TaskFailed", "type", task.Type(), "error", err)
		}),
	})
	return &AsynqServer{server: srv, mux: asynq.NewServeMux()}, nil
}

func (s *AsynqServer) Register(taskType string, h Handler) {
	s.mux.HandleFunc(taskType, func(ctx context.Context, t *asynq.Task) error {
		return h(ctx, Task{Type: t.Type(), Payload: t.Payload()})
	})
}

// Run starts processing and blocks until ctx is canceled.
func (s *AsynqServer) Run(ctx context.Context) error {
	if err := s.server.Start(s.mux); err != nil {
		return err
	}
	<-ctx.Done()
	s.server.Shutdown()
	return nil
}

// ErrSkipRetry marks a handler error as permanent. Wrap it to drop a task
// without retrying.
var ErrSkipRetry = asynq.SkipRetry
