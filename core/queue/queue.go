package queue

import (
	"context"

	"sportmeet/core/config"
	"sportmeet/core/constants"
	"sportmeet/core/logger"

	"github.com/hibiken/asynq"
)

func redisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

func NewClient(cfg config.RedisConfig) *asynq.Client {
	return asynq.NewClient(redisOpt(cfg))
}

// Worker runs asynq handlers for the notification queue.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

func NewWorker(cfg config.RedisConfig, concurrency int) *Worker {
	if concurrency <= 0 {
		concurrency = 10
	}
	srv := asynq.NewServer(redisOpt(cfg), asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			constants.QueueNotifications: 1,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger.Error("Queue:Worker:TaskFailed", "type", task.Type(), "error", err)
		}),
		Logger: asynqLogger{},
	})
	return &Worker{server: srv, mux: asynq.NewServeMux()}
}

func (w *Worker) Handle(pattern string, handler asynq.Handler) {
	w.mux.Handle(pattern, handler)
}

func (w *Worker) HandleFunc(pattern string, handler func(context.Context, *asynq.Task) error) {
	w.mux.HandleFunc(pattern, handler)
}

// Start begins processing in the background.
func (w *Worker) Start() error {
	return w.server.Start(w.mux)
}

func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

type asynqLogger struct{}

func (asynqLogger) Debug(args ...any) { logger.Debug("Queue:asynq", "detail", args) }
func (asynqLogger) Info(args ...any)  { logger.Info("Queue:asynq", "detail", args) }
func (asynqLogger) Warn(args ...any)  { logger.Warn("Queue:asynq", "detail", args) }
func (asynqLogger) Error(args ...any) { logger.Error("Queue:asynq", "detail", args) }
func (asynqLogger) Fatal(args ...any) { logger.Error("Queue:asynq:Fatal", "detail", args) }
