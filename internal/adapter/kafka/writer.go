package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/crowflies/internal/config"
	"github.com/couchcryptid/crowflies/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces distance results to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes and publishes results in a single WriteMessages call.
func (w *Writer) LoadBatch(ctx context.Context, results []domain.DistanceResult) error {
	if len(results) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(results))
	for i := range results {
		msg, err := serializeToMessage(results[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a DistanceResult into a Kafka message keyed by
// query ID, so answers to the same query land on one partition.
func serializeToMessage(res domain.DistanceResult) (kafkago.Message, error) {
	data, err := json.Marshal(res)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize distance result: %w", err)
	}
	status := "ok"
	if res.Failed() {
		status = "error"
	}
	return kafkago.Message{
		Key:   []byte(res.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "status", Value: []byte(status)},
			{Key: "unit", Value: []byte(res.Unit)},
			{Key: "computed_at", Value: []byte(res.ComputedAt.Format(time.RFC3339))},
		},
	}, nil
}
