package worker_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/hbomb79/Trove/pkg/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_WorkerPool_WakeupDrainsWork(t *testing.T) {
	var pending, processed atomic.Int32
	task := func(w worker.Worker) (bool, error) {
		for {
			n := pending.Load()
			if n <= 0 {
				return false, nil
			}
			if pending.CompareAndSwap(n, n-1) {
				break
			}
		}

		processed.Add(1)
		return true, nil
	}

	pool := worker.NewWorkerPool()
	require.NoError(t, pool.PushWorker(worker.NewWorker("test-worker-0", task), worker.NewWorker("test-worker-1", task)))
	require.NoError(t, pool.Start())
	t.Cleanup(pool.Close)

	pending.Store(5)
	require.NoError(t, pool.WakeupWorkers())

	assert.Eventually(t, func() bool { return processed.Load() == 5 }, time.Second, 5*time.Millisecond)
}

func Test_WorkerPool_Lifecycle(t *testing.T) {
	pool := worker.NewWorkerPool()
	assert.Error(t, pool.WakeupWorkers(), "waking an unstarted pool should fail")

	require.NoError(t, pool.Start())
	assert.Error(t, pool.Start(), "starting twice should fail")
	assert.Error(t, pool.PushWorker(worker.NewWorker("late", func(worker.Worker) (bool, error) { return false, nil })))

	pool.Close()
}
