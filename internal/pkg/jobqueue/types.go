package jobqueue

import (
	"encoding/json"
	"fmt"
	"time"
)

// JobType defines the type of job
type JobType string

const (
	JobTypeOrderSync   JobType = "order_sync"
	JobTypeOrderCancel JobType = "order_cancel"
)

// JobStatus defines the status of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusRetrying   JobStatus = "retrying"
	JobStatusScheduled  JobStatus = "scheduled"
)

// Job represents a background job
type Job struct {
	ID          string                 `json:"id"`
	Type        JobType                `json:"type"`
	Status      JobStatus              `json:"status"`
	Payload     map[string]interface{} `json:"payload"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	ProcessedAt *time.Time             `json:"processed_at,omitempty"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	ErrorMsg    string                 `json:"error_msg,omitempty"`
	RunAt       *time.Time             `json:"run_at,omitempty"`
	RetryCount  int                    `json:"retry_count"`
	MaxRetries  int                    `json:"max_retries"`
}

// OrderSyncJobPayload contains the payload for order sync jobs
type OrderSyncJobPayload struct {
	OrderPlugID string `json:"order_plug_id"`
	Reason      string `json:"reason,omitempty"` // e.g. boleto_due, pix_expired, manual
}

// ToMap converts the payload to a map for storage
func (p OrderSyncJobPayload) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"order_plug_id": p.OrderPlugID,
	}
	if p.Reason != "" {
		m["reason"] = p.Reason
	}
	return m
}

// OrderSyncJobPayloadFromMap creates a payload from a map
func OrderSyncJobPayloadFromMap(data map[string]interface{}) (*OrderSyncJobPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload OrderSyncJobPayload
	if err := json.Unmarshal(jsonData, &payload); err != nil {
		return nil, err
	}
	if payload.OrderPlugID == "" {
		return nil, fmt.Errorf("order sync payload without order_plug_id")
	}
	return &payload, nil
}

// OrderCancelJobPayload contains the payload for cancel retry jobs
type OrderCancelJobPayload struct {
	OrderPlugID string `json:"order_plug_id"`
	Attempt     int    `json:"attempt"`
}

func (p OrderCancelJobPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"order_plug_id": p.OrderPlugID,
		"attempt":       p.Attempt,
	}
}

func OrderCancelJobPayloadFromMap(data map[string]interface{}) (*OrderCancelJobPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var payload OrderCancelJobPayload
	if err := json.Unmarshal(jsonData, &payload); err != nil {
		return nil, err
	}
	if payload.OrderPlugID == "" {
		return nil, fmt.Errorf("order cancel payload without order_plug_id")
	}
	return &payload, nil
}

// IsRetryable checks if the job can be retried
func (j *Job) IsRetryable() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// MarkAsProcessing updates the job status to processing
func (j *Job) MarkAsProcessing() {
	now := time.Now()
	j.Status = JobStatusProcessing
	j.UpdatedAt = now
	j.ProcessedAt = &now
}

// MarkAsCompleted updates the job status to completed
func (j *Job) MarkAsCompleted() {
	now := time.Now()
	j.Status = JobStatusCompleted
	j.UpdatedAt = now
	j.CompletedAt = &now
	j.ErrorMsg = ""
}

// MarkAsFailed updates the job status to failed
func (j *Job) MarkAsFailed(errorMsg string) {
	j.Status = JobStatusFailed
	j.UpdatedAt = time.Now()
	j.ErrorMsg = errorMsg
	j.RetryCount++
}

// MarkAsRetrying updates the job status to retrying
func (j *Job) MarkAsRetrying() {
	j.Status = JobStatusRetrying
	j.UpdatedAt = time.Now()
}

// MarkAsScheduled parks the job until runAt
func (j *Job) MarkAsScheduled(runAt time.Time) {
	j.Status = JobStatusScheduled
	j.UpdatedAt = time.Now()
	j.RunAt = &runAt
}

// RetryDelay is the backoff before the next attempt: one minute per failed attempt
func (j *Job) RetryDelay() time.Duration {
	if j.RetryCount <= 0 {
		return time.Minute
	}
	return time.Duration(j.RetryCount) * time.Minute
}
