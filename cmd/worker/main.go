package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/feichai0017/pbit-mentor/config"
	"github.com/feichai0017/pbit-mentor/internal/service/grading"
	"github.com/feichai0017/pbit-mentor/pkg/logger"
	"github.com/feichai0017/pbit-mentor/pkg/worker"
)

func main() {
	log, err := logger.NewLogger(
		logger.WithLevel("info"),
		logger.WithEncoding("json"),
		logger.WithOutputPaths([]string{"stdout", "logs/worker.log"}),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	gradingService, err := grading.GetService(log)
	if err != nil {
		log.Error("Failed to create grading service", logger.Error(err))
		os.Exit(1)
	}

	queueCfg := config.GetQueueConfig()
	workerCfg := &worker.Config{
		RedisAddr:   queueCfg.RedisAddr,
		RedisDB:     queueCfg.RedisDB,
		Concurrency: queueCfg.Concurrency,
		Queues: map[string]int{
			"critical": 6,
			"default":  3,
			"low":      1,
		},
	}

	gradingWorker, err := worker.NewGradingWorker(workerCfg, gradingService, log)
	if err != nil {
		log.Error("Failed to create grading worker", logger.Error(err))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := gradingWorker.Start(ctx); err != nil {
		log.Error("Failed to start worker", logger.Error(err))
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down worker...")
	gradingWorker.Stop()
	log.Info("Worker stopped")
}
