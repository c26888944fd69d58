package jobqueue

import (
	"context"
	"time"
)

// Enqueuer is the queue surface the scheduler needs
type Enqueuer interface {
	EnqueueJob(ctx context.Context, jobType JobType, payload map[string]interface{}) (*Job, error)
	EnqueueDelayed(ctx context.Context, jobType JobType, payload map[string]interface{}, delay time.Duration) (*Job, error)
}

// Scheduler turns order follow-ups into queue jobs.
type Scheduler struct {
	queue Enqueuer
}

func NewScheduler(queue Enqueuer) *Scheduler {
	return &Scheduler{queue: queue}
}

// ScheduleOrderSync enqueues a sync of the order after delay
func (s *Scheduler) ScheduleOrderSync(ctx context.Context, orderPlugID string, delay time.Duration) error {
	_, err := s.queue.EnqueueDelayed(ctx, JobTypeOrderSync, OrderSyncJobPayload{OrderPlugID: orderPlugID}.ToMap(), delay)
	return err
}

// ScheduleCancelRetry enqueues another cancellation attempt for the order
func (s *Scheduler) ScheduleCancelRetry(ctx context.Context, orderPlugID string, delay time.Duration) error {
	_, err := s.queue.EnqueueDelayed(ctx, JobTypeOrderCancel, OrderCancelJobPayload{OrderPlugID: orderPlugID, Attempt: 1}.ToMap(), delay)
	return err
}

// SyncNow enqueues an immediate sync
func (s *Scheduler) SyncNow(ctx context.Context, orderPlugID string) (*Job, error) {
	return s.queue.EnqueueJob(ctx, JobTypeOrderSync, OrderSyncJobPayload{OrderPlugID: orderPlugID, Reason: "manual"}.ToMap())
}
