package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nao1215/realreach/internal/auth"
	"github.com/nao1215/realreach/internal/database"
	"github.com/nao1215/realreach/internal/filter"
	"github.com/nao1215/realreach/internal/model"
	"github.com/nao1215/realreach/internal/pipeline"
	"github.com/nao1215/realreach/internal/report"
	"github.com/nao1215/realreach/internal/source"
)

var (
	// ErrResultNotFound is returned when a session has no result with the given ID.
	ErrResultNotFound = errors.New("analysis result not found")

	// ErrNoFollowers is returned when an analysis finds nothing to score.
	ErrNoFollowers = pipeline.ErrNoFollowers
)

// Service runs analyses and manages their sessions.
// Store, Auth and Source are required; the other fields have defaults.
type Service struct {
	Store  database.Store
	Auth   auth.Provider
	Source source.Source

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Now is the clock used for session dates and inactivity checks.
	// It defaults to time.Now.
	Now func() time.Time

	// Concurrency limits parallel scoring. Zero means pipeline.DefaultConcurrency.
	Concurrency int

	// mu serializes session ID allocation and read-modify-write updates
	// of stored sessions.
	mu sync.Mutex
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// StartAnalysis fetches and scores the followers of the logged in user and
// stores the resulting session. progress, when non-nil, is called after
// each scored follower.
func (s *Service) StartAnalysis(ctx context.Context, progress pipeline.ProgressFunc) (*model.AnalysisSession, error) {
	user, err := s.Auth.Current(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	logger := s.logger().With("platform", user.Platform, "source", s.Source.Name())
	logger.Info("starting analysis", "user", user.Username)

	run := pipeline.NewRun(user, now)
	p := pipeline.DefaultPipeline(s.Source,
		[]pipeline.Option{pipeline.WithLogger(logger)},
		pipeline.WithConcurrency(s.Concurrency),
		pipeline.WithProgress(progress),
	)
	logger.Debug("running pipeline", "steps", p.StepNames())
	if err := p.Execute(ctx, run); err != nil {
		if run.Cancelled {
			logger.Warn("analysis cancelled", "performed", run.PerformedSteps)
		}
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	session := &model.AnalysisSession{
		UserID:            user.ID,
		Username:          user.Username,
		Platform:          user.Platform,
		Date:              now,
		TotalFollowers:    len(run.Followers),
		AnalyzedFollowers: len(run.Results),
		Results:           run.Results,
		Summary:           run.Summary,
	}
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}

	logger.Info("analysis complete",
		"session", session.ID,
		"steps", run.PerformedSteps,
		"followers", session.TotalFollowers,
		"suspicious", session.Summary.SuspiciousCount,
		"average", session.Summary.AverageRealScore,
	)
	return session, nil
}

// save assigns session a free ID and stores it. The ID lookup and the write
// happen under s.mu so concurrent analyses never share an ID.
func (s *Service) save(ctx context.Context, session *model.AnalysisSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.newSessionID(ctx, session.Date)
	if err != nil {
		return err
	}
	session.ID = id
	if err := s.Store.Put(ctx, session); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// newSessionID returns "session_<unix millis>", moving forward one
// millisecond at a time while the ID is taken. Callers hold s.mu.
func (s *Service) newSessionID(ctx context.Context, now time.Time) (string, error) {
	ms := now.UnixMilli()
	for {
		id := fmt.Sprintf("session_%d", ms)
		_, err := s.Store.Get(ctx, id)
		if errors.Is(err, database.ErrSessionNotFound) {
			return id, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check session id: %w", err)
		}
		ms++
	}
}

// ListSessions returns the sessions of the logged in user, newest first.
func (s *Service) ListSessions(ctx context.Context) ([]*model.AnalysisSession, error) {
	user, err := s.Auth.Current(ctx)
	if err != nil {
		return nil, err
	}
	return s.Store.List(ctx, user.ID)
}

// GetSession returns a session by ID.
func (s *Service) GetSession(ctx context.Context, id string) (*model.AnalysisSession, error) {
	return s.Store.Get(ctx, id)
}

// Results returns the results of a session filtered and sorted by criteria.
func (s *Service) Results(ctx context.Context, id string, criteria filter.Criteria) ([]model.AnalysisResult, error) {
	session, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return filter.Apply(session.Results, criteria)
}

// ToggleMark flips the marked-suspicious flag of a result and returns the
// updated result.
func (s *Service) ToggleMark(ctx context.Context, id, resultID string) (*model.AnalysisResult, error) {
	return s.update(ctx, id, resultID, func(r *model.AnalysisResult) {
		r.IsMarkedSuspicious = !r.IsMarkedSuspicious
	})
}

// ToggleHidden flips the hidden flag of a result and returns the updated result.
func (s *Service) ToggleHidden(ctx context.Context, id, resultID string) (*model.AnalysisResult, error) {
	return s.update(ctx, id, resultID, func(r *model.AnalysisResult) {
		r.IsHidden = !r.IsHidden
	})
}

func (s *Service) update(ctx context.Context, id, resultID string, fn func(*model.AnalysisResult)) (*model.AnalysisResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	result := session.FindResult(resultID)
	if result == nil {
		return nil, fmt.Errorf("%w: %s in %s", ErrResultNotFound, resultID, id)
	}
	fn(result)
	updated := *result

	if err := s.Store.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return &updated, nil
}

// DeleteSession removes a session.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger().Info("session deleted", "session", id)
	return nil
}

// Export returns the export document of a session.
func (s *Service) Export(ctx context.Context, id string) (*report.Export, error) {
	session, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return report.NewExport(session), nil
}
