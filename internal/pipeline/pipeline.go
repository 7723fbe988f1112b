package pipeline

import (
	"context"
	"log/slog"
)

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, each one receiving the Run as left by the
// previous steps.
type Step interface {
	// Do executes the pipeline step.
	Do(ctx context.Context, run *Run) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence and stops at the first
// failing step. The context is checked before each step; steps handle
// cancellation inside themselves.
func (p *Pipeline) Execute(ctx context.Context, run *Run) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			run.Cancelled = true
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step", "step", step.Name())

		if err := step.Do(ctx, run); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"error", err,
			)
			return err
		}
		p.logger.Debug("step completed", "step", step.Name())

		run.PerformedSteps = append(run.PerformedSteps, step.Name())
	}

	return nil
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
