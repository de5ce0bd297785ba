package kafka

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/couchcryptid/crowflies/internal/config"
	"github.com/couchcryptid/crowflies/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Reader consumes distance queries from a Kafka topic.
// It implements pipeline.BatchExtractor.
type Reader struct {
	reader        *kafkago.Reader
	flushInterval time.Duration
	logger        *slog.Logger
}

// NewReader creates a consumer-group reader for the configured source topic.
func NewReader(cfg *config.Config, logger *slog.Logger) *Reader {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     cfg.KafkaBrokers,
		Topic:       cfg.KafkaSourceTopic,
		GroupID:     cfg.KafkaGroupID,
		StartOffset: kafkago.FirstOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
	})
	return &Reader{reader: r, flushInterval: cfg.BatchFlushInterval, logger: logger}
}

// ExtractBatch fetches up to batchSize messages, returning early with what it
// has once the flush interval elapses. Offsets are not committed here; each
// message carries a Commit callback.
func (r *Reader) ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawMessage, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, r.flushInterval)
	defer cancel()

	batch := make([]domain.RawMessage, 0, batchSize)
	for len(batch) < batchSize {
		msg, err := r.reader.FetchMessage(fetchCtx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if errors.Is(err, context.DeadlineExceeded) {
				break
			}
			if len(batch) > 0 {
				r.logger.Warn("fetch failed mid-batch, returning partial batch", "error", err, "batch_size", len(batch))
				break
			}
			return nil, err
		}
		batch = append(batch, r.mapMessage(msg))
	}
	return batch, nil
}

func (r *Reader) mapMessage(msg kafkago.Message) domain.RawMessage {
	raw := mapMessageToRaw(msg)
	raw.Commit = func(ctx context.Context) error {
		return r.reader.CommitMessages(ctx, msg)
	}
	return raw
}

func (r *Reader) Close() error {
	return r.reader.Close()
}

func mapMessageToRaw(msg kafkago.Message) domain.RawMessage {
	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	return domain.RawMessage{
		Key:       msg.Key,
		Value:     msg.Value,
		Headers:   headers,
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Timestamp: msg.Time,
	}
}
