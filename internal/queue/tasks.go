package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// TaskEstimateSaved is emitted after an estimate record is persisted.
const TaskEstimateSaved = "estimate:saved"

// EstimateSavedPayload is the task body for TaskEstimateSaved.
type EstimateSavedPayload struct {
	TenantSlug string    `json:"tenantSlug"`
	EstimateID uuid.UUID `json:"estimateId"`
}

// NewEstimateSavedTask builds the asynq task for a saved estimate.
func NewEstimateSavedTask(tenantSlug string, estimateID uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(EstimateSavedPayload{TenantSlug: tenantSlug, EstimateID: estimateID})
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", TaskEstimateSaved, err)
	}
	return asynq.NewTask(TaskEstimateSaved, payload), nil
}

// Enqueuer submits background tasks through an asynq client. A nil
// client turns enqueueing into a no-op so the API can run without a
// worker in development.
type Enqueuer struct {
	Client *asynq.Client
	Queue  string
}

// EnqueueEstimateSaved schedules webhook delivery for a saved estimate.
func (e *Enqueuer) EnqueueEstimateSaved(ctx context.Context, tenantSlug string, estimateID uuid.UUID) error {
	if e == nil || e.Client == nil {
		return nil
	}
	task, err := NewEstimateSavedTask(tenantSlug, estimateID)
	if err != nil {
		return err
	}
	opts := []asynq.Option{
		asynq.MaxRetry(5),
		asynq.Timeout(time.Minute),
	}
	if e.Queue != "" {
		opts = append(opts, asynq.Queue(e.Queue))
	}
	if _, err := e.Client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("enqueue %s: %w", TaskEstimateSaved, err)
	}
	return nil
}
