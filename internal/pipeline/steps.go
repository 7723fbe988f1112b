package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nao1215/realreach/internal/model"
	"github.com/nao1215/realreach/internal/source"
)

// ErrNoFollowers is returned when the source yields no followers.
var ErrNoFollowers = errors.New("no followers to analyze")

// FetchStep loads the followers of the run's user from a Source.
type FetchStep struct {
	source source.Source
	logger *slog.Logger
}

// NewFetchStep creates a FetchStep reading from src.
func NewFetchStep(src source.Source, logger *slog.Logger) *FetchStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &FetchStep{source: src, logger: logger}
}

// Name returns the step name.
func (s *FetchStep) Name() string {
	return "fetch"
}

// Do executes the fetch step.
func (s *FetchStep) Do(ctx context.Context, run *Run) error {
	followers, err := s.source.Followers(ctx, run.User)
	if err != nil {
		return fmt.Errorf("failed to fetch followers from %s: %w", s.source.Name(), err)
	}
	if len(followers) == 0 {
		return ErrNoFollowers
	}

	s.logger.Debug("fetched followers",
		"source", s.source.Name(),
		"count", len(followers),
	)
	run.Followers = followers
	return nil
}

// ScoreStep scores the fetched followers concurrently.
type ScoreStep struct {
	batch *BatchProcessor
}

// NewScoreStep creates a ScoreStep.
func NewScoreStep(opts ...BatchOption) *ScoreStep {
	return &ScoreStep{batch: NewBatchProcessor(opts...)}
}

// Name returns the step name.
func (s *ScoreStep) Name() string {
	return "score"
}

// Do executes the score step.
func (s *ScoreStep) Do(ctx context.Context, run *Run) error {
	results, err := s.batch.Process(ctx, run.Followers, run.Now)
	if err != nil {
		return err
	}
	run.Results = results
	return nil
}

// SummarizeStep computes the aggregate counters of the run.
type SummarizeStep struct{}

// Name returns the step name.
func (SummarizeStep) Name() string {
	return "summarize"
}

// Do executes the summarize step.
func (SummarizeStep) Do(_ context.Context, run *Run) error {
	run.Summary = model.Summarize(run.Results)
	return nil
}

// DefaultPipeline builds the fetch, score and summarize pipeline.
func DefaultPipeline(src source.Source, pipelineOpts []Option, batchOpts ...BatchOption) *Pipeline {
	p := New(pipelineOpts...)
	p.AddSteps(
		NewFetchStep(src, p.logger),
		NewScoreStep(append([]BatchOption{WithBatchLogger(p.logger)}, batchOpts...)...),
		SummarizeStep{},
	)
	return p
}
