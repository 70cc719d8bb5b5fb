package queue

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/arunahq/backend-estimate/internal/estimate"
	"github.com/arunahq/backend-estimate/internal/obs"
)

// EstimateLoader fetches the persisted estimate a task refers to.
type EstimateLoader interface {
	Get(ctx context.Context, tenantSlug string, id uuid.UUID) (estimate.Record, error)
}

// WebhookDeliverer handles TaskEstimateSaved by posting a signed JSON
// payload to the configured endpoint. Failed deliveries return an error
// so asynq retries with its backoff schedule.
type WebhookDeliverer struct {
	Estimates EstimateLoader
	Endpoint  string
	Secret    string
	Client    *http.Client
	Logger    zerolog.Logger
}

type webhookBody struct {
	Event      string          `json:"event"`
	TenantSlug string          `json:"tenantSlug"`
	Estimate   estimate.Record `json:"estimate"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// HandleEstimateSaved implements the asynq handler for TaskEstimateSaved.
func (d *WebhookDeliverer) HandleEstimateSaved(ctx context.Context, task *asynq.Task) error {
	if d.Endpoint == "" {
		return nil
	}

	var payload EstimateSavedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		// A malformed payload never becomes deliverable; retrying burns
		// the queue for nothing.
		return fmt.Errorf("decode %s payload: %w: %w", TaskEstimateSaved, err, asynq.SkipRetry)
	}

	rec, err := d.Estimates.Get(ctx, payload.TenantSlug, payload.EstimateID)
	if err != nil {
		d.observe("load_error")
		return fmt.Errorf("load estimate %s: %w", payload.EstimateID, err)
	}

	body, err := json.Marshal(webhookBody{
		Event:      TaskEstimateSaved,
		TenantSlug: payload.TenantSlug,
		Estimate:   rec,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode webhook body: %w: %w", err, asynq.SkipRetry)
	}

	ts := time.Now().Unix()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "aruna-estimate-webhooks/1.0")
	req.Header.Set("X-Timestamp", strconv.FormatInt(ts, 10))
	req.Header.Set("X-Estimate-ID", payload.EstimateID.String())
	req.Header.Set("X-Aruna-Signature", ComputeSignature(d.Secret, ts, payload.EstimateID.String(), body))

	client := d.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		d.observe("network_error")
		return fmt.Errorf("deliver webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		d.observe("rejected")
		return fmt.Errorf("webhook endpoint returned %d", resp.StatusCode)
	}

	d.observe("ok")
	d.Logger.Info().
		Str("tenant", payload.TenantSlug).
		Str("estimate_id", payload.EstimateID.String()).
		Int("status", resp.StatusCode).
		Msg("estimate webhook delivered")
	return nil
}

func (d *WebhookDeliverer) observe(result string) {
	if obs.EstimateWebhookTotal != nil {
		obs.EstimateWebhookTotal.WithLabelValues(result).Inc()
	}
}

// ComputeSignature calculates the webhook signature for the payload. The
// format is HMAC-SHA256 over "<ts>.<estimateID>.<body>" using the shared secret.
func ComputeSignature(secret string, ts int64, estimateID string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(strconv.FormatInt(ts, 10)))
	_, _ = mac.Write([]byte("."))
	_, _ = mac.Write([]byte(estimateID))
	_, _ = mac.Write([]byte("."))
	_, _ = mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
