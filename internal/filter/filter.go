package filter

import (
	"cmp"
	"slices"
	"strings"

	"github.com/nao1215/realreach/internal/model"
)

// Apply filters and sorts results according to c.
// The returned slice is newly allocated; results is left untouched.
func Apply(results []model.AnalysisResult, c Criteria) ([]model.AnalysisResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	filtered := make([]model.AnalysisResult, 0, len(results))
	for i := range results {
		if keep(&results[i], c) {
			filtered = append(filtered, results[i])
		}
	}

	slices.SortStableFunc(filtered, compareFunc(c.SortBy))
	if c.SortDirection == Descending {
		slices.Reverse(filtered)
	}

	return filtered, nil
}

// keep reports whether r passes every filter stage of c.
func keep(r *model.AnalysisResult, c Criteria) bool {
	if r.RealScore < c.ScoreRange[0] || r.RealScore > c.ScoreRange[1] {
		return false
	}
	if len(c.Issues) > 0 && !r.HasAnyIssue(c.Issues) {
		return false
	}
	switch c.MarkedStatus {
	case MarkedOnly:
		if !r.IsMarkedSuspicious {
			return false
		}
	case MarkedUnmarked:
		if r.IsMarkedSuspicious {
			return false
		}
	}
	if c.HideHidden && r.IsHidden {
		return false
	}
	return true
}

// compareFunc returns the ascending comparison for key.
func compareFunc(key SortKey) func(a, b model.AnalysisResult) int {
	switch key {
	case SortByUsername:
		return func(a, b model.AnalysisResult) int {
			return strings.Compare(a.Follower.Username, b.Follower.Username)
		}
	case SortByDate:
		return func(a, b model.AnalysisResult) int {
			return a.Follower.LastActivityDate.Compare(b.Follower.LastActivityDate)
		}
	default:
		return func(a, b model.AnalysisResult) int {
			return cmp.Compare(a.RealScore, b.RealScore)
		}
	}
}
