package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/go5u/foodflow-inventory/internal/observability"
	"github.com/go5u/foodflow-inventory/internal/shared"
)

// MessageReader abstracts the Kafka group reader.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// Reconciler is the engine contract the consumer dispatches to.
type Reconciler interface {
	Reconcile(ctx context.Context, event OrderEvent, direction Direction) Report
}

// DedupStore claims order identities so redelivered events are dropped.
type DedupStore interface {
	CheckAndInsert(ctx context.Context, orderID int64) error
	Release(ctx context.Context, orderID int64) error
}

// Consumer is the order-event intake loop. It dispatches by lifecycle status
// and stays available regardless of any single event's outcome.
type Consumer struct {
	reader  MessageReader
	engine  Reconciler
	dedup   DedupStore
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewConsumer constructs the consumer. Dedup and metrics may be nil.
func NewConsumer(reader MessageReader, engine Reconciler, dedup DedupStore, metrics *observability.Metrics, logger *slog.Logger) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Consumer{reader: reader, engine: engine, dedup: dedup, metrics: metrics, logger: logger}
}

// Run reads order events until the context is cancelled. The event in flight
// finishes before Run returns, so shutdown drains gracefully.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("order event consumer started")
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				c.logger.Info("order event consumer stopping")
				return nil
			}
			c.logger.Error("read order event", slog.Any("error", err))
			continue
		}
		c.Handle(ctx, msg.Value)
	}
}

// Handle processes one raw order event. Nothing escapes this boundary: bad
// payloads are dropped, reconciliation reports are logged, and a panic in the
// pipeline is recovered so the next event still gets processed.
func (c *Consumer) Handle(ctx context.Context, payload []byte) {
	var event OrderEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		c.logger.Error("malformed order event, discarding", slog.Any("error", err))
		c.metrics.OrderEvent("malformed")
		return
	}

	claimed := false
	defer func() {
		if rec := recover(); rec != nil {
			c.logger.Error("panic while processing order event",
				slog.Int64("order_id", event.OrderID),
				slog.Any("panic", rec))
			c.metrics.OrderEvent("panic")
			// Free the claim so the redelivery is not dropped as a duplicate.
			if claimed {
				if err := c.dedup.Release(ctx, event.OrderID); err != nil {
					c.logger.Warn("release order claim", slog.Int64("order_id", event.OrderID), slog.Any("error", err))
				}
			}
		}
	}()

	status := ParseStatus(event.Status)
	c.logger.Info("order event received",
		slog.Int64("order_id", event.OrderID),
		slog.String("status", status.String()))

	if status == StatusUnknown {
		c.logger.Warn("unknown order status, discarding",
			slog.Int64("order_id", event.OrderID),
			slog.String("status", event.Status))
		c.metrics.OrderEvent("discarded")
		return
	}

	if c.dedup != nil {
		err := c.dedup.CheckAndInsert(ctx, event.OrderID)
		switch {
		case errors.Is(err, shared.ErrDuplicateOrder):
			c.logger.Info("duplicate order event, dropping", slog.Int64("order_id", event.OrderID))
			c.metrics.OrderEvent("duplicate")
			return
		case err != nil:
			// Dedup is best effort; on store failure the event is processed
			// anyway, accepting a possible double-apply under redelivery.
			c.logger.Warn("order dedup unavailable", slog.Int64("order_id", event.OrderID), slog.Any("error", err))
		default:
			claimed = true
		}
	}

	direction := Apply
	result := "created"
	if status == StatusCancelled {
		direction = Reverse
		result = "cancelled"
	}

	report := c.engine.Reconcile(ctx, event, direction)
	for _, outcome := range report.Ingredients {
		c.metrics.IngredientOutcome(outcome.Status)
	}
	c.metrics.OrderEvent(result)
}
