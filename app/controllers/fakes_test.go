package controllers

import (
	"context"
	"sync"
	"time"

	"github.com/ManuelReschke/PlugSync/app/models"
	"github.com/ManuelReschke/PlugSync/internal/pkg/jobqueue"
	"github.com/ManuelReschke/PlugSync/internal/pkg/platform"
	"github.com/ManuelReschke/PlugSync/internal/pkg/webhook"
)

type fakeDeliveries struct {
	mu        sync.Mutex
	recorded  []models.WebhookDelivery
	processed []models.WebhookDelivery
	recordErr error
}

func (f *fakeDeliveries) Record(_ context.Context, d *models.WebhookDelivery) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recordErr != nil {
		return f.recordErr
	}
	d.ID = uint(len(f.recorded) + 1)
	f.recorded = append(f.recorded, *d)
	return nil
}

func (f *fakeDeliveries) MarkProcessed(_ context.Context, d *models.WebhookDelivery) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.processed = append(f.processed, *d)
	return nil
}

type fakeDispatcher struct {
	result webhook.Result
	err    error
	calls  []*webhook.Webhook
}

func (f *fakeDispatcher) Dispatch(_ context.Context, w *webhook.Webhook) (webhook.Result, error) {
	f.calls = append(f.calls, w)
	return f.result, f.err
}

type fakeArchiver struct {
	keys []string
	err  error
}

func (f *fakeArchiver) PutWebhookPayload(_ context.Context, plugID, eventType string, _ []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	key := "webhooks/" + eventType + "/" + plugID + ".json"
	f.keys = append(f.keys, key)
	return key, nil
}

type fakeCounter struct {
	labels []string
}

func (f *fakeCounter) Add(_ context.Context, label string) error {
	f.labels = append(f.labels, label)
	return nil
}

type fakeHub struct {
	status  string
	token   string
	seeds   []string
	endArgs [][4]string
	err     error
}

func (f *fakeHub) StartIntegration(_ context.Context, seed string) (string, error) {
	f.seeds = append(f.seeds, seed)
	return f.token, f.err
}

func (f *fakeHub) EndIntegration(_ context.Context, installToken, code, callbackURL, webhookURL string) error {
	f.endArgs = append(f.endArgs, [4]string{installToken, code, callbackURL, webhookURL})
	return f.err
}

func (f *fakeHub) GetStatus() string { return f.status }

type fakeOrderOps struct {
	created     *models.Order
	createErr   error
	cancelErr   error
	stored      *models.Order
	refreshed   *models.Order
	refreshErr  error
	cancelCalls int
}

func (f *fakeOrderOps) CreateOrderAtPlug(_ context.Context, _ models.PlatformOrder) (*models.Order, error) {
	return f.created, f.createErr
}

func (f *fakeOrderOps) CancelAtPlugByPlatformOrder(_ context.Context, _ models.PlatformOrder) error {
	f.cancelCalls++
	return f.cancelErr
}

func (f *fakeOrderOps) GetOrderByPlatformID(_ context.Context, _ uint) (*models.Order, error) {
	return f.stored, nil
}

func (f *fakeOrderOps) RefreshFromPlug(_ context.Context, _ string) (*models.Order, error) {
	return f.refreshed, f.refreshErr
}

type fakePlatforms struct {
	rows map[string]*models.HostOrder
}

func (f *fakePlatforms) LoadByCode(_ context.Context, code string) (models.PlatformOrder, error) {
	row, ok := f.rows[code]
	if !ok {
		return nil, nil
	}
	return platform.Wrap(row, nil, nil, nil), nil
}

type fakeFollowUps struct {
	cancelRetries []string
	syncs         []string
}

func (f *fakeFollowUps) ScheduleCancelRetry(_ context.Context, orderPlugID string, _ time.Duration) error {
	f.cancelRetries = append(f.cancelRetries, orderPlugID)
	return nil
}

func (f *fakeFollowUps) SyncNow(_ context.Context, orderPlugID string) (*jobqueue.Job, error) {
	f.syncs = append(f.syncs, orderPlugID)
	return &jobqueue.Job{ID: "job-1", Type: jobqueue.JobTypeOrderSync}, nil
}
