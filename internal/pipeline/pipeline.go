package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/crowflies/internal/domain"
	"github.com/couchcryptid/crowflies/internal/observability"
	"github.com/couchcryptid/storm-data-shared/retry"
)

const transport = "kafka"

// BatchExtractor reads up to batchSize raw queries from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawMessage, error)
}

// Transformer turns a raw query into a distance result. A returned error
// means the message is a poison pill and produces no result.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawMessage) (domain.DistanceResult, error)
}

// BatchLoader writes multiple distance results to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, results []domain.DistanceResult) error
}

// Pipeline orchestrates the extract-transform-load loop for distance queries.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
	batchSize   int
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
	}
}

// CheckReadiness returns nil once the pipeline has loaded at least one batch.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not processed any queries yet")
	}
	return nil
}

// Run executes the batch loop until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !p.processBatch(ctx, &backoff, maxBackoff) {
			return nil
		}
	}
}

// processBatch runs one extract-transform-load cycle. Returns false if the pipeline should stop.
func (p *Pipeline) processBatch(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	start := time.Now()

	rawBatch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("extract batch failed", "error", err)
		return p.backoffOrStop(ctx, backoff, maxBackoff)
	}

	if len(rawBatch) == 0 {
		return ctx.Err() == nil
	}

	p.metrics.MessagesConsumed.Add(float64(len(rawBatch)))
	p.metrics.BatchSize.Observe(float64(len(rawBatch)))
	*backoff = 200 * time.Millisecond

	loaded, ok := p.transformAndLoad(ctx, rawBatch, backoff, maxBackoff)
	if !ok {
		return false
	}

	if loaded > 0 {
		p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
		p.ready.Store(true)
	}
	return true
}

// transformAndLoad resolves each query in the batch, loads the results and
// commits offsets. Poison pills are committed immediately and skipped.
// Returns the number of loaded results and false if the pipeline should stop.
func (p *Pipeline) transformAndLoad(ctx context.Context, rawBatch []domain.RawMessage, backoff *time.Duration, maxBackoff time.Duration) (int, bool) {
	outBatch := make([]domain.DistanceResult, 0, len(rawBatch))
	answered := make([]domain.RawMessage, 0, len(rawBatch))

	for _, raw := range rawBatch {
		res, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			p.logger.Warn("invalid query, skipping message",
				"error", err,
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			p.metrics.PoisonMessages.Inc()
			p.metrics.RecordQuery(transport, "invalid_query")
			p.commitOffset(ctx, raw)
			continue
		}
		p.record(res)
		outBatch = append(outBatch, res)
		answered = append(answered, raw)
	}

	if len(outBatch) == 0 {
		return 0, true
	}

	if err := p.loader.LoadBatch(ctx, outBatch); err != nil {
		p.logger.Error("load batch failed", "error", err, "batch_size", len(outBatch))
		return 0, p.backoffOrStop(ctx, backoff, maxBackoff)
	}

	p.metrics.MessagesProduced.Add(float64(len(outBatch)))

	for _, raw := range answered {
		p.commitOffset(ctx, raw)
	}

	return len(outBatch), true
}

func (p *Pipeline) record(res domain.DistanceResult) {
	if res.Failed() {
		p.logger.Debug("query failed", "id", res.ID, "from", res.FromCode, "to", res.ToCode, "error", res.Error)
		p.metrics.RecordQuery(transport, res.ErrorKind)
		return
	}
	p.metrics.RecordQuery(transport, "ok")
	p.metrics.QueryDistance.Observe(res.Distance)
}

// backoffOrStop checks for context cancellation, sleeps with the current backoff,
// and advances the backoff. Returns false if the pipeline should stop.
func (p *Pipeline) backoffOrStop(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !retry.SleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = retry.NextBackoff(*backoff, maxBackoff)
	return true
}

// commitOffset commits the message offset if a commit function is available.
func (p *Pipeline) commitOffset(ctx context.Context, raw domain.RawMessage) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}
