package jobqueue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PlugSync/app/models"
	"github.com/ManuelReschke/PlugSync/internal/pkg/apperr"
)

type fakeReconciler struct {
	refreshed []string
	canceled  []string

	refreshErr error
	cancelErr  error
	isCanceled bool
}

func (f *fakeReconciler) RefreshFromPlug(_ context.Context, plugID string) (*models.Order, error) {
	f.refreshed = append(f.refreshed, plugID)
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return &models.Order{PlugID: plugID, Status: models.OrderStatusPaid}, nil
}

func (f *fakeReconciler) CancelByPlugID(_ context.Context, plugID string) (bool, error) {
	f.canceled = append(f.canceled, plugID)
	return f.isCanceled, f.cancelErr
}

type fakeEnqueuer struct {
	types    []JobType
	payloads []map[string]interface{}
	delays   []time.Duration
}

func (f *fakeEnqueuer) EnqueueJob(_ context.Context, jobType JobType, payload map[string]interface{}) (*Job, error) {
	return f.EnqueueDelayed(context.Background(), jobType, payload, 0)
}

func (f *fakeEnqueuer) EnqueueDelayed(_ context.Context, jobType JobType, payload map[string]interface{}, delay time.Duration) (*Job, error) {
	f.types = append(f.types, jobType)
	f.payloads = append(f.payloads, payload)
	f.delays = append(f.delays, delay)
	return &Job{ID: "job-1", Type: jobType, Payload: payload}, nil
}

func syncJob(plugID string) *Job {
	return &Job{Type: JobTypeOrderSync, Payload: OrderSyncJobPayload{OrderPlugID: plugID}.ToMap()}
}

func cancelJob(plugID string) *Job {
	return &Job{Type: JobTypeOrderCancel, Payload: OrderCancelJobPayload{OrderPlugID: plugID, Attempt: 1}.ToMap()}
}

func TestOrderSyncProcessor(t *testing.T) {
	ctx := context.Background()

	t.Run("refreshes the order", func(t *testing.T) {
		svc := &fakeReconciler{}
		require.NoError(t, OrderSyncProcessor(svc).Process(ctx, syncJob("or_1")))
		assert.Equal(t, []string{"or_1"}, svc.refreshed)
	})

	t.Run("unknown order completes the job", func(t *testing.T) {
		svc := &fakeReconciler{refreshErr: apperr.NewNotFound("Order #%s not found.", "or_2")}
		assert.NoError(t, OrderSyncProcessor(svc).Process(ctx, syncJob("or_2")))
	})

	t.Run("remote failure is returned for retry", func(t *testing.T) {
		svc := &fakeReconciler{refreshErr: errors.New("plug unavailable")}
		err := OrderSyncProcessor(svc).Process(ctx, syncJob("or_3"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "or_3")
	})

	t.Run("invalid payload", func(t *testing.T) {
		svc := &fakeReconciler{}
		err := OrderSyncProcessor(svc).Process(ctx, &Job{Payload: map[string]interface{}{}})
		assert.Error(t, err)
		assert.Empty(t, svc.refreshed)
	})
}

func TestOrderCancelProcessor(t *testing.T) {
	ctx := context.Background()

	t.Run("canceled order completes the job", func(t *testing.T) {
		svc := &fakeReconciler{isCanceled: true}
		require.NoError(t, OrderCancelProcessor(svc).Process(ctx, cancelJob("or_1")))
		assert.Equal(t, []string{"or_1"}, svc.canceled)
	})

	t.Run("order still open asks for a retry", func(t *testing.T) {
		svc := &fakeReconciler{isCanceled: false}
		err := OrderCancelProcessor(svc).Process(ctx, cancelJob("or_1"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "could not be canceled")
	})

	t.Run("unknown order completes the job", func(t *testing.T) {
		svc := &fakeReconciler{cancelErr: apperr.NewNotFound("Order #%s not found.", "or_4")}
		assert.NoError(t, OrderCancelProcessor(svc).Process(ctx, cancelJob("or_4")))
	})

	t.Run("service error is returned", func(t *testing.T) {
		svc := &fakeReconciler{cancelErr: errors.New("db down")}
		assert.Error(t, OrderCancelProcessor(svc).Process(ctx, cancelJob("or_5")))
	})
}

func TestRegisterOrderProcessors(t *testing.T) {
	queue := NewQueue(nil, 1)
	RegisterOrderProcessors(queue, &fakeReconciler{})

	_, ok := queue.processor(JobTypeOrderSync)
	assert.True(t, ok)
	_, ok = queue.processor(JobTypeOrderCancel)
	assert.True(t, ok)
}

func TestScheduler(t *testing.T) {
	ctx := context.Background()
	q := &fakeEnqueuer{}
	s := NewScheduler(q)

	require.NoError(t, s.ScheduleOrderSync(ctx, "or_1", 96*time.Hour))
	require.NoError(t, s.ScheduleCancelRetry(ctx, "or_2", time.Minute))
	_, err := s.SyncNow(ctx, "or_3")
	require.NoError(t, err)

	assert.Equal(t, []JobType{JobTypeOrderSync, JobTypeOrderCancel, JobTypeOrderSync}, q.types)
	assert.Equal(t, []time.Duration{96 * time.Hour, time.Minute, 0}, q.delays)
	assert.Equal(t, "or_1", q.payloads[0]["order_plug_id"])
	assert.Equal(t, "or_2", q.payloads[1]["order_plug_id"])
	assert.Equal(t, "manual", q.payloads[2]["reason"])
}

func TestProcessorsAcceptTestJobs(t *testing.T) {
	ctx := context.Background()
	svc := &fakeReconciler{isCanceled: true}
	queue := NewQueue(nil, 1)
	RegisterOrderProcessors(queue, svc)

	for jobType, job := range testJobs() {
		p, ok := queue.processor(jobType)
		require.True(t, ok)
		assert.NoError(t, p.Process(ctx, job), jobType)
	}
	assert.Equal(t, []string{"or_test"}, svc.refreshed)
	assert.Equal(t, []string{"or_test"}, svc.canceled)
}
