package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/feichai0017/pbit-mentor/internal/service/grading"
	"github.com/feichai0017/pbit-mentor/pkg/logger"
	"github.com/feichai0017/pbit-mentor/pkg/queue"
)

// GradingWorker consumes queued grading tasks and runs them through the
// grading service.
type GradingWorker struct {
	BaseWorker
	gradingService grading.Service
}

func NewGradingWorker(cfg *Config, gradingService grading.Service, log logger.Logger) (*GradingWorker, error) {
	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr, DB: cfg.RedisDB},
		asynq.Config{
			Concurrency: cfg.Concurrency,
			Queues:      cfg.Queues,
			RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
				return time.Duration(n) * time.Minute
			},
		},
	)

	w := &GradingWorker{
		BaseWorker: BaseWorker{
			server:   server,
			mux:      asynq.NewServeMux(),
			logger:   log,
			stopChan: make(chan struct{}),
		},
		gradingService: gradingService,
	}

	w.mux.HandleFunc(queue.TaskTypeGradeSubmission, w.handleGradeSubmission)
	return w, nil
}

func (w *GradingWorker) handleGradeSubmission(ctx context.Context, t *asynq.Task) error {
	var task queue.Task
	if err := json.Unmarshal(t.Payload(), &task); err != nil {
		w.logger.Error("Failed to unmarshal grading task",
			logger.Error(err),
			logger.String("payload", string(t.Payload())),
		)
		return fmt.Errorf("failed to unmarshal task: %w", err)
	}

	if task.ID == "" || task.Payload == nil {
		return fmt.Errorf("invalid task data: missing required fields")
	}

	w.logger.Info("Grading queued submission",
		logger.String("taskId", task.ID),
		logger.Any("metadata", task.Metadata),
	)

	if err := w.gradingService.HandleGradingTask(ctx, &task); err != nil {
		w.logger.Error("Grading task failed",
			logger.String("taskId", task.ID),
			logger.Error(err),
		)
		return err
	}

	w.logger.Info("Grading task completed",
		logger.String("taskId", task.ID),
	)
	return nil
}

func (w *GradingWorker) Start(ctx context.Context) error {
	go func() {
		if err := w.server.Run(w.mux); err != nil {
			w.logger.Error("Worker server stopped", logger.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		w.Stop()
	}()

	return nil
}
