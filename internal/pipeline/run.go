package pipeline

import (
	"time"

	"github.com/nao1215/realreach/internal/model"
)

// Run carries the state of one analysis through the pipeline.
type Run struct {
	// User is the account whose followers are analyzed.
	User *model.User

	// Now is the reference time used for inactivity checks.
	Now time.Time

	// Followers is filled by the fetch step.
	Followers []model.Follower

	// Results is filled by the score step, in follower order.
	Results []model.AnalysisResult

	// Summary is filled by the summarize step.
	Summary model.Summary

	// PerformedSteps lists the names of the steps that ran, in order.
	PerformedSteps []string

	// Cancelled is set when the run stopped because the context ended.
	Cancelled bool
}

// NewRun creates a Run for user evaluated at now.
func NewRun(user *model.User, now time.Time) *Run {
	return &Run{
		User:           user,
		Now:            now,
		PerformedSteps: make([]string, 0),
	}
}
