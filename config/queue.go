package config

import (
	"strconv"
	"sync"
)

var (
	queueOnce   sync.Once
	queueConfig *QueueConfig
)

type QueueConfig struct {
	RedisAddr   string
	RedisDB     int
	Concurrency int
}

func GetQueueConfig() *QueueConfig {
	queueOnce.Do(func() {
		loadEnv()

		db, _ := strconv.Atoi(getenv("REDIS_DB", "0"))
		concurrency, err := strconv.Atoi(getenv("WORKER_CONCURRENCY", "5"))
		if err != nil || concurrency < 1 {
			concurrency = 5
		}

		queueConfig = &QueueConfig{
			RedisAddr:   getenv("REDIS_ADDR", "localhost:6379"),
			RedisDB:     db,
			Concurrency: concurrency,
		}
	})
	return queueConfig
}
