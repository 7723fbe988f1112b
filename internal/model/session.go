package model

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// ErrInvalidSession is returned by Validate for sessions that can not be used.
var ErrInvalidSession = errors.New("invalid analysis session")

// AnalysisSession is one analysis run: the scored followers of a user on a
// platform, plus aggregates derived from them.
type AnalysisSession struct {
	// ID identifies the session ("session_<unix millis>").
	ID string `json:"id"`

	// UserID is the ID of the user who ran the analysis.
	UserID string `json:"userId"`

	// Username is the handle of the user who ran the analysis.
	Username string `json:"username"`

	// Platform is the platform the followers were fetched from.
	Platform Platform `json:"platform"`

	// Date is when the analysis was performed.
	Date time.Time `json:"date"`

	// TotalFollowers is the number of followers fetched.
	TotalFollowers int `json:"totalFollowers"`

	// AnalyzedFollowers is the number of followers that were scored.
	AnalyzedFollowers int `json:"analyzedFollowers"`

	// Results holds one entry per analyzed follower.
	Results []AnalysisResult `json:"results"`

	// Summary is derived from Results by Recompute and must never be
	// edited directly.
	Summary Summary `json:"summary"`
}

// Summary holds aggregate counters over a result set.
type Summary struct {
	// TotalFollowers is the number of results summarized.
	TotalFollowers int `json:"totalFollowers"`

	// SuspiciousCount is the number of results scoring below SuspiciousThreshold.
	SuspiciousCount int `json:"suspiciousCount"`

	// InactiveCount is the number of results carrying the inactive issue.
	InactiveCount int `json:"inactiveCount"`

	// AverageRealScore is the arithmetic mean score, 0 for an empty set.
	AverageRealScore float64 `json:"averageRealScore"`

	// SuspiciousPercentage is SuspiciousCount relative to TotalFollowers.
	SuspiciousPercentage float64 `json:"suspiciousPercentage"`

	// InactivePercentage is InactiveCount relative to TotalFollowers.
	InactivePercentage float64 `json:"inactivePercentage"`
}

// Empty reports whether the summary was computed over no results.
func (s Summary) Empty() bool {
	return s.TotalFollowers == 0
}

// Summarize computes the aggregate counters over results.
// An empty collection yields the zero Summary instead of a NaN mean.
func Summarize(results []AnalysisResult) Summary {
	summary := Summary{TotalFollowers: len(results)}
	if len(results) == 0 {
		return summary
	}

	total := 0
	for i := range results {
		total += results[i].RealScore
		if results[i].IsSuspicious() {
			summary.SuspiciousCount++
		}
		if results[i].HasIssue(IssueInactive) {
			summary.InactiveCount++
		}
	}

	n := float64(len(results))
	summary.AverageRealScore = float64(total) / n
	summary.SuspiciousPercentage = float64(summary.SuspiciousCount) / n * 100
	summary.InactivePercentage = float64(summary.InactiveCount) / n * 100

	return summary
}

// Recompute refreshes the aggregates from Results.
// Stores call it on every read and write so aggregates can not drift.
func (s *AnalysisSession) Recompute() {
	s.Summary = Summarize(s.Results)
	s.AnalyzedFollowers = len(s.Results)
	if s.TotalFollowers < s.AnalyzedFollowers {
		s.TotalFollowers = s.AnalyzedFollowers
	}
}

// FindResult returns the result with the given ID, or nil.
// The returned pointer aliases the session's slice.
func (s *AnalysisSession) FindResult(resultID string) *AnalysisResult {
	for i := range s.Results {
		if s.Results[i].ID == resultID {
			return &s.Results[i]
		}
	}
	return nil
}

// SuspiciousResults returns the results scoring below SuspiciousThreshold,
// in session order.
func (s *AnalysisSession) SuspiciousResults() []AnalysisResult {
	suspicious := make([]AnalysisResult, 0)
	for _, r := range s.Results {
		if r.IsSuspicious() {
			suspicious = append(suspicious, r)
		}
	}
	return suspicious
}

// MarkedCount returns the number of results the user marked as suspicious.
func (s *AnalysisSession) MarkedCount() int {
	count := 0
	for _, r := range s.Results {
		if r.IsMarkedSuspicious {
			count++
		}
	}
	return count
}

// IssueCounts returns how many results carry each issue type.
func (s *AnalysisSession) IssueCounts() map[IssueType]int {
	counts := make(map[IssueType]int)
	for _, r := range s.Results {
		for _, issue := range r.Issues {
			counts[issue.Type]++
		}
	}
	return counts
}

// Validate checks that the session is well formed.
// Persisted sessions are validated before use because the stored JSON may
// have been edited or truncated.
func (s *AnalysisSession) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidSession)
	}
	if !s.Platform.IsValid() {
		return fmt.Errorf("%w: unsupported platform %q", ErrInvalidSession, s.Platform)
	}

	seen := make(map[string]struct{}, len(s.Results))
	for i := range s.Results {
		r := &s.Results[i]
		if r.ID == "" {
			return fmt.Errorf("%w: result %d has no id", ErrInvalidSession, i)
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("%w: duplicate result id %q", ErrInvalidSession, r.ID)
		}
		seen[r.ID] = struct{}{}

		if r.RealScore < 0 || r.RealScore > MaxScore {
			return fmt.Errorf("%w: result %q has score %d outside [0,%d]",
				ErrInvalidSession, r.ID, r.RealScore, MaxScore)
		}
		for _, issue := range r.Issues {
			if !issue.Type.IsValid() {
				return fmt.Errorf("%w: result %q has unknown issue type %q",
					ErrInvalidSession, r.ID, issue.Type)
			}
		}
	}

	return nil
}

// Clone returns a copy of the session that shares no mutable state with s.
func (s *AnalysisSession) Clone() *AnalysisSession {
	c := *s
	c.Results = make([]AnalysisResult, len(s.Results))
	for i, r := range s.Results {
		r.Issues = slices.Clone(r.Issues)
		if r.Follower.AvatarURL != nil {
			r.Follower.AvatarURL = StringPtr(*r.Follower.AvatarURL)
		}
		if r.Follower.Bio != nil {
			r.Follower.Bio = StringPtr(*r.Follower.Bio)
		}
		c.Results[i] = r
	}
	return &c
}
