//go:build integration
// +build integration

package jobqueue

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestJobQueue_WorkerLifecycle runs real workers against Redis until a delayed job is processed
func TestJobQueue_WorkerLifecycle(t *testing.T) {
	q := setupRedisQueue(t)
	ctx := context.Background()

	var processed atomic.Int32
	q.Register(JobTypeOrderSync, ProcessorFunc(func(context.Context, *Job) error {
		processed.Add(1)
		return nil
	}))

	manager := NewManager(q, time.Second)
	manager.Start()
	defer manager.Stop()
	assert.True(t, manager.IsRunning())

	_, err := q.EnqueueJob(ctx, JobTypeOrderSync, OrderSyncJobPayload{OrderPlugID: "or_now"}.ToMap())
	require.NoError(t, err)
	_, err = q.EnqueueDelayed(ctx, JobTypeOrderSync, OrderSyncJobPayload{OrderPlugID: "or_later"}.ToMap(), 1500*time.Millisecond)
	require.NoError(t, err)

	ok := WaitForCondition(func() bool { return processed.Load() == 2 }, 10*time.Second)
	assert.True(t, ok, "both jobs should be processed")

	manager.Stop()
	assert.False(t, manager.IsRunning())
}

// TestJobQueue_RetryMechanism checks a failing processor is retried through the delayed set
func TestJobQueue_RetryMechanism(t *testing.T) {
	q := setupRedisQueue(t)
	ctx := context.Background()

	var attempts atomic.Int32
	q.Register(JobTypeOrderCancel, ProcessorFunc(func(context.Context, *Job) error {
		if attempts.Add(1) == 1 {
			return assert.AnError
		}
		return nil
	}))

	job, err := q.EnqueueJob(ctx, JobTypeOrderCancel, OrderCancelJobPayload{OrderPlugID: "or_1"}.ToMap())
	require.NoError(t, err)

	dequeued, err := q.dequeueJob(ctx)
	require.NoError(t, err)
	q.processJob(ctx, dequeued)

	// Fast-forward the retry delay
	n, err := q.PromoteDue(ctx, time.Now().Add(2*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	dequeued, err = q.dequeueJob(ctx)
	require.NoError(t, err)
	assert.Equal(t, job.ID, dequeued.ID)
	q.processJob(ctx, dequeued)

	assert.Equal(t, int32(2), attempts.Load())
	_, err = q.GetJob(ctx, job.ID)
	assert.Error(t, err)
}
