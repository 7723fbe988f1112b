package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/realreach/internal/model"
	"github.com/nao1215/realreach/internal/scoring"
)

// DefaultConcurrency is the number of followers scored at the same time
// when no limit is configured.
const DefaultConcurrency = 8

// ProgressFunc is called after each follower is scored with the number of
// followers done so far and the total. Calls are serialized and done is
// strictly increasing.
type ProgressFunc func(done, total int)

// BatchProcessor scores followers concurrently.
// Results are written into a pre-sized slice so their order matches the
// input regardless of completion order.
type BatchProcessor struct {
	// concurrency is the maximum number of followers scored at once.
	concurrency int

	// progress is notified after each follower.
	progress ProgressFunc

	// logger is used for batch-level logging.
	logger *slog.Logger

	// mu serializes progress reporting.
	mu   sync.Mutex
	done int
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent scorings.
// Non-positive values keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithProgress sets the progress callback.
func WithProgress(fn ProgressFunc) BatchOption {
	return func(b *BatchProcessor) {
		b.progress = fn
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		concurrency: DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// Process scores followers at reference time now.
// It stops scheduling new work once ctx is done and returns ctx.Err();
// the results slice is only meaningful when the error is nil.
func (bp *BatchProcessor) Process(ctx context.Context, followers []model.Follower, now time.Time) ([]model.AnalysisResult, error) {
	bp.logger.Debug("starting batch scoring",
		"total_followers", len(followers),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()
	bp.done = 0

	results := make([]model.AnalysisResult, len(followers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i := range followers {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			results[i] = scoring.Analyze(followers[i], now)
			bp.report(len(followers))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bp.logger.Debug("batch scoring complete",
		"total_followers", len(followers),
		"elapsed", time.Since(startTime),
	)

	return results, nil
}

func (bp *BatchProcessor) report(total int) {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	bp.done++
	if bp.progress != nil {
		bp.progress(bp.done, total)
	}
}
