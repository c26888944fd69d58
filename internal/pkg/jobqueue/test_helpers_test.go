package jobqueue

import (
	"time"
)

// testJobs creates one pending job per order job type
func testJobs() map[JobType]*Job {
	now := time.Now()

	return map[JobType]*Job{
		JobTypeOrderSync: {
			ID:         "test-sync-job",
			Type:       JobTypeOrderSync,
			Status:     JobStatusPending,
			Payload:    OrderSyncJobPayload{OrderPlugID: "or_test"}.ToMap(),
			CreatedAt:  now,
			UpdatedAt:  now,
			RetryCount: 0,
			MaxRetries: 3,
		},
		JobTypeOrderCancel: {
			ID:         "test-cancel-job",
			Type:       JobTypeOrderCancel,
			Status:     JobStatusPending,
			Payload:    OrderCancelJobPayload{OrderPlugID: "or_test", Attempt: 1}.ToMap(),
			CreatedAt:  now,
			UpdatedAt:  now,
			RetryCount: 0,
			MaxRetries: 3,
		},
	}
}

// WaitForCondition waits for a condition to be true with timeout
func WaitForCondition(condition func() bool, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}
