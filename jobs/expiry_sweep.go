package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/go5u/foodflow-inventory/internal/inventory"
)

// ExpirySweepJob reports products past their expiration date that still hold
// stock. It flags them downstream; it does not reallocate or zero stock.
type ExpirySweepJob struct {
	service *inventory.Service
	logger  *slog.Logger
}

// NewExpirySweepJob constructs the job.
func NewExpirySweepJob(service *inventory.Service, logger *slog.Logger) *ExpirySweepJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExpirySweepJob{service: service, logger: logger}
}

// Handle processes TaskExpirySweep tasks.
func (j *ExpirySweepJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload ExpirySweepPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	asOf := payload.ScheduledFor
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}
	products, err := j.service.ListExpired(ctx, asOf, payload.Limit)
	if err != nil {
		return err
	}
	for _, p := range products {
		j.logger.Warn("product past expiration with stock on hand",
			slog.Int64("product_id", p.ID),
			slog.String("name", p.Name),
			slog.Int("quantity", p.Quantity),
			slog.Time("expired_at", p.ExpirationDate))
		j.service.PublishExpired(p.ID)
	}
	j.logger.Info("expiry sweep finished", slog.Int("flagged", len(products)))
	return nil
}
