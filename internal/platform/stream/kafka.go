// Package stream provides Kafka plumbing for the service.
package stream

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// NewReader builds a group consumer for the given topic.
func NewReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
	})
}

// NewWriter builds a producer for the given topic.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
}

// AsyncWriter publishes JSON messages fire-and-forget: each publish runs in a
// detached goroutine whose failure is logged, never returned to the caller.
type AsyncWriter struct {
	writer  *kafka.Writer
	logger  *slog.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewAsyncWriter wraps a kafka.Writer for best-effort publishing.
func NewAsyncWriter(writer *kafka.Writer, logger *slog.Logger) *AsyncWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &AsyncWriter{writer: writer, logger: logger, timeout: 10 * time.Second}
}

// Publish serialises value and writes it in the background.
func (w *AsyncWriter) Publish(key string, value any, headers ...kafka.Header) {
	payload, err := json.Marshal(value)
	if err != nil {
		w.logger.Error("marshal outbound event", slog.String("key", key), slog.Any("error", err))
		return
	}
	msg := kafka.Message{Key: []byte(key), Value: payload, Headers: headers}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		defer cancel()
		if err := w.writer.WriteMessages(ctx, msg); err != nil {
			w.logger.Error("publish event failed", slog.String("key", key), slog.Any("error", err))
			return
		}
		w.logger.Info("event published", slog.String("key", key), slog.String("topic", w.writer.Topic))
	}()
}

// Close waits for in-flight publishes to finish, then closes the writer.
func (w *AsyncWriter) Close() error {
	w.wg.Wait()
	return w.writer.Close()
}
