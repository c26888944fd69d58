package jobqueue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisQueue(t *testing.T) *Queue {
	t.Helper()
	client := newIsolatedRedisClient(t, isolatedJobQueueTestRedisDB)
	resetJobQueueRedisWithClient(t, client)
	return NewQueue(client, 1)
}

func TestQueue_EnqueueJob(t *testing.T) {
	q := setupRedisQueue(t)
	ctx := context.Background()

	job, err := q.EnqueueJob(ctx, JobTypeOrderSync, OrderSyncJobPayload{OrderPlugID: "or_1"}.ToMap())
	require.NoError(t, err)

	size, err := q.GetQueueSize(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), size)

	stored, err := q.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, JobStatusPending, stored.Status)
	assert.Equal(t, "or_1", stored.Payload["order_plug_id"])

	stats, err := q.GetJobStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats[JobStatusPending])
}

func TestQueue_EnqueueDelayedAndPromote(t *testing.T) {
	q := setupRedisQueue(t)
	ctx := context.Background()

	job, err := q.EnqueueDelayed(ctx, JobTypeOrderSync, OrderSyncJobPayload{OrderPlugID: "or_1"}.ToMap(), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, JobStatusScheduled, job.Status)

	delayed, err := q.GetDelayedSize(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), delayed)

	// Not due yet
	n, err := q.PromoteDue(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = q.PromoteDue(ctx, time.Now().Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	size, _ := q.GetQueueSize(ctx)
	assert.Equal(t, int64(1), size)
	delayed, _ = q.GetDelayedSize(ctx)
	assert.Equal(t, int64(0), delayed)

	stored, err := q.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, JobStatusPending, stored.Status)

	// A second promote finds nothing
	n, err = q.PromoteDue(ctx, time.Now().Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestQueue_EnqueueDelayedWithoutDelay(t *testing.T) {
	q := setupRedisQueue(t)
	ctx := context.Background()

	_, err := q.EnqueueDelayed(ctx, JobTypeOrderCancel, OrderCancelJobPayload{OrderPlugID: "or_1"}.ToMap(), 0)
	require.NoError(t, err)

	size, _ := q.GetQueueSize(ctx)
	assert.Equal(t, int64(1), size)
	delayed, _ := q.GetDelayedSize(ctx)
	assert.Equal(t, int64(0), delayed)
}

func TestQueue_ProcessJobSuccess(t *testing.T) {
	q := setupRedisQueue(t)
	ctx := context.Background()

	var seen string
	q.Register(JobTypeOrderSync, ProcessorFunc(func(_ context.Context, job *Job) error {
		seen, _ = job.Payload["order_plug_id"].(string)
		return nil
	}))

	_, err := q.EnqueueJob(ctx, JobTypeOrderSync, OrderSyncJobPayload{OrderPlugID: "or_7"}.ToMap())
	require.NoError(t, err)

	job, err := q.dequeueJob(ctx)
	require.NoError(t, err)
	q.processJob(ctx, job)

	assert.Equal(t, "or_7", seen)

	_, err = q.GetJob(ctx, job.ID)
	assert.Error(t, err, "completed jobs are removed")

	processing, _ := q.GetProcessingSize(ctx)
	assert.Equal(t, int64(0), processing)

	stats, _ := q.GetJobStats(ctx)
	assert.Equal(t, int64(1), stats[JobStatusCompleted])
}

func TestQueue_ProcessJobFailureSchedulesRetry(t *testing.T) {
	q := setupRedisQueue(t)
	ctx := context.Background()

	q.Register(JobTypeOrderCancel, ProcessorFunc(func(context.Context, *Job) error {
		return errors.New("charge still open")
	}))

	_, err := q.EnqueueJob(ctx, JobTypeOrderCancel, OrderCancelJobPayload{OrderPlugID: "or_1"}.ToMap())
	require.NoError(t, err)

	job, err := q.dequeueJob(ctx)
	require.NoError(t, err)
	q.processJob(ctx, job)

	stored, err := q.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, JobStatusRetrying, stored.Status)
	assert.Equal(t, 1, stored.RetryCount)
	assert.Equal(t, "charge still open", stored.ErrorMsg)
	require.NotNil(t, stored.RunAt)

	delayed, _ := q.GetDelayedSize(ctx)
	assert.Equal(t, int64(1), delayed)
	processing, _ := q.GetProcessingSize(ctx)
	assert.Equal(t, int64(0), processing)
}

func TestQueue_ProcessJobUnknownTypeFailsPermanently(t *testing.T) {
	q := setupRedisQueue(t)
	ctx := context.Background()

	_, err := q.EnqueueJob(ctx, JobType("unknown"), map[string]interface{}{})
	require.NoError(t, err)

	job, err := q.dequeueJob(ctx)
	require.NoError(t, err)
	q.processJob(ctx, job)

	stored, err := q.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, JobStatusFailed, stored.Status)

	delayed, _ := q.GetDelayedSize(ctx)
	assert.Equal(t, int64(0), delayed)
	stats, _ := q.GetJobStats(ctx)
	assert.Equal(t, int64(1), stats[JobStatusFailed])
}

func TestQueue_RecoverStuck(t *testing.T) {
	q := setupRedisQueue(t)
	ctx := context.Background()

	_, err := q.EnqueueJob(ctx, JobTypeOrderSync, OrderSyncJobPayload{OrderPlugID: "or_1"}.ToMap())
	require.NoError(t, err)

	job, err := q.dequeueJob(ctx)
	require.NoError(t, err)
	job.MarkAsProcessing()
	q.updateJob(ctx, job)

	n, err := q.RecoverStuck(ctx, 10*time.Minute, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = q.RecoverStuck(ctx, 10*time.Minute, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	size, _ := q.GetQueueSize(ctx)
	assert.Equal(t, int64(1), size)
	processing, _ := q.GetProcessingSize(ctx)
	assert.Equal(t, int64(0), processing)

	stored, err := q.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "recovered by sweeper", stored.ErrorMsg)
}
