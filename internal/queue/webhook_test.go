package queue_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/arunahq/backend-estimate/internal/estimate"
	"github.com/arunahq/backend-estimate/internal/queue"
)

type fakeLoader struct {
	rec estimate.Record
	err error
}

func (f *fakeLoader) Get(context.Context, string, uuid.UUID) (estimate.Record, error) {
	if f.err != nil {
		return estimate.Record{}, f.err
	}
	return f.rec, nil
}

func savedTask(t *testing.T, tenantSlug string, id uuid.UUID) *asynq.Task {
	t.Helper()
	task, err := queue.NewEstimateSavedTask(tenantSlug, id)
	require.NoError(t, err)
	return task
}

func TestHandleEstimateSavedDeliversSignedPayload(t *testing.T) {
	estimateID := uuid.New()
	rec := estimate.Record{
		ID:        estimateID,
		Contact:   estimate.Contact{Name: "Asha Rao", Email: "asha@example.com"},
		Total:     42000,
		CreatedAt: time.Now(),
	}

	var (
		gotSignature string
		gotTimestamp string
		gotBody      []byte
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSignature = r.Header.Get("X-Aruna-Signature")
		gotTimestamp = r.Header.Get("X-Timestamp")
		var err error
		gotBody, err = io.ReadAll(r.Body)
		require.NoError(t, err)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	deliverer := &queue.WebhookDeliverer{
		Estimates: &fakeLoader{rec: rec},
		Endpoint:  server.URL,
		Secret:    "s3cret",
		Logger:    zerolog.Nop(),
	}

	err := deliverer.HandleEstimateSaved(context.Background(), savedTask(t, "studio-prima", estimateID))
	require.NoError(t, err)
	require.NotEmpty(t, gotSignature)

	ts, err := strconv.ParseInt(gotTimestamp, 10, 64)
	require.NoError(t, err)
	require.Equal(t, queue.ComputeSignature("s3cret", ts, estimateID.String(), gotBody), gotSignature)

	var body struct {
		Event      string          `json:"event"`
		TenantSlug string          `json:"tenantSlug"`
		Estimate   estimate.Record `json:"estimate"`
	}
	require.NoError(t, json.Unmarshal(gotBody, &body))
	require.Equal(t, queue.TaskEstimateSaved, body.Event)
	require.Equal(t, "studio-prima", body.TenantSlug)
	require.Equal(t, estimateID, body.Estimate.ID)
}

func TestHandleEstimateSavedRetriesOnRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	deliverer := &queue.WebhookDeliverer{
		Estimates: &fakeLoader{rec: estimate.Record{ID: uuid.New()}},
		Endpoint:  server.URL,
		Secret:    "s3cret",
		Logger:    zerolog.Nop(),
	}

	err := deliverer.HandleEstimateSaved(context.Background(), savedTask(t, "studio-prima", uuid.New()))
	require.Error(t, err)
	require.False(t, errors.Is(err, asynq.SkipRetry), "delivery failures must stay retryable")
}

func TestHandleEstimateSavedNoEndpointIsNoop(t *testing.T) {
	deliverer := &queue.WebhookDeliverer{
		Estimates: &fakeLoader{err: errors.New("should not be called")},
		Logger:    zerolog.Nop(),
	}
	err := deliverer.HandleEstimateSaved(context.Background(), savedTask(t, "studio-prima", uuid.New()))
	require.NoError(t, err)
}

func TestHandleEstimateSavedSkipsRetryOnBadPayload(t *testing.T) {
	deliverer := &queue.WebhookDeliverer{
		Estimates: &fakeLoader{},
		Endpoint:  "http://127.0.0.1:1",
		Secret:    "s3cret",
		Logger:    zerolog.Nop(),
	}
	task := asynq.NewTask(queue.TaskEstimateSaved, []byte("{not json"))
	err := deliverer.HandleEstimateSaved(context.Background(), task)
	require.Error(t, err)
	require.ErrorIs(t, err, asynq.SkipRetry)
}
