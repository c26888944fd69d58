package jobqueue

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PlugSync/app/models"
	"github.com/ManuelReschke/PlugSync/internal/pkg/apperr"
)

// Processor runs one job. A returned error marks the job failed and
// schedules a retry while retries remain.
type Processor interface {
	Process(ctx context.Context, job *Job) error
}

// ProcessorFunc adapts a function to Processor
type ProcessorFunc func(ctx context.Context, job *Job) error

func (f ProcessorFunc) Process(ctx context.Context, job *Job) error {
	return f(ctx, job)
}

// OrderReconciler is the part of the order service the worker drives.
type OrderReconciler interface {
	RefreshFromPlug(ctx context.Context, plugID string) (*models.Order, error)
	CancelByPlugID(ctx context.Context, plugID string) (bool, error)
}

// RegisterOrderProcessors binds the order job types to svc
func RegisterOrderProcessors(q *Queue, svc OrderReconciler) {
	q.Register(JobTypeOrderSync, OrderSyncProcessor(svc))
	q.Register(JobTypeOrderCancel, OrderCancelProcessor(svc))
}

// OrderSyncProcessor pulls the order from Plug and writes it through to the platform order.
func OrderSyncProcessor(svc OrderReconciler) Processor {
	return ProcessorFunc(func(ctx context.Context, job *Job) error {
		payload, err := OrderSyncJobPayloadFromMap(job.Payload)
		if err != nil {
			return fmt.Errorf("invalid order sync payload: %w", err)
		}

		order, err := svc.RefreshFromPlug(ctx, payload.OrderPlugID)
		if err != nil {
			if isNotFound(err) {
				// Nothing to reconcile; retrying cannot change that
				log.Warnf("[JobQueue] Order sync %s skipped: %v", payload.OrderPlugID, err)
				return nil
			}
			return fmt.Errorf("order sync %s: %w", payload.OrderPlugID, err)
		}

		log.Infof("[JobQueue] Order %s synced (status=%s)", payload.OrderPlugID, order.Status)
		return nil
	})
}

// OrderCancelProcessor retries the cancellation of an order at Plug until
// every charge is canceled.
func OrderCancelProcessor(svc OrderReconciler) Processor {
	return ProcessorFunc(func(ctx context.Context, job *Job) error {
		payload, err := OrderCancelJobPayloadFromMap(job.Payload)
		if err != nil {
			return fmt.Errorf("invalid order cancel payload: %w", err)
		}

		canceled, err := svc.CancelByPlugID(ctx, payload.OrderPlugID)
		if err != nil {
			if isNotFound(err) {
				log.Warnf("[JobQueue] Order cancel %s skipped: %v", payload.OrderPlugID, err)
				return nil
			}
			return fmt.Errorf("order cancel %s: %w", payload.OrderPlugID, err)
		}
		if !canceled {
			return fmt.Errorf("order %s still has charges that could not be canceled", payload.OrderPlugID)
		}

		log.Infof("[JobQueue] Order %s canceled at Plug", payload.OrderPlugID)
		return nil
	})
}

func isNotFound(err error) bool {
	var nf *apperr.NotFoundError
	return errors.As(err, &nf)
}
