package worker

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/feichai0017/pbit-mentor/pkg/logger"
)

func TestStopIsIdempotent(t *testing.T) {
	w, err := NewGradingWorker(&Config{
		RedisAddr:   "localhost:6379",
		Concurrency: 1,
		Queues:      map[string]int{"default": 1},
	}, nil, logger.NewTestLogger())
	require.NoError(t, err)

	// Shutdown can race in from both the signal handler and the
	// context watcher; a second call must be a no-op, not a panic.
	require.NotPanics(t, func() {
		require.NoError(t, w.Stop())
		require.NoError(t, w.Stop())
	})
}
