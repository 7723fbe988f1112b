package scoring

import (
	"fmt"
	"time"

	"github.com/nao1215/realreach/internal/model"
)

// Score returns the realness score of f and the issues that lowered it.
// now is the reference time for the inactivity rule.
func Score(f model.Follower, now time.Time) (int, []model.FollowerIssue) {
	issues := make([]model.FollowerIssue, 0)
	deduction := 0

	if !f.HasAvatar() {
		issues = append(issues, issue(model.IssueMissingAvatar, model.SeverityMedium, descMissingAvatar))
		deduction += MissingAvatarDeduction
	}

	bio := f.BioText()
	switch {
	case bio == "":
		issues = append(issues, issue(model.IssueSuspiciousBio, model.SeverityLow, descEmptyBio))
		deduction += EmptyBioDeduction
	case ContainsSpamKeywords(bio):
		issues = append(issues, issue(model.IssueSpamKeywords, model.SeverityHigh, descSpamKeywords))
		deduction += SpamKeywordsDeduction
	}

	if f.FollowerCount < LowRatioMaxFollowers && f.FollowingCount > LowRatioMinFollowing {
		issues = append(issues, issue(model.IssueLowRatio, model.SeverityMedium, descLowRatio))
		deduction += LowRatioDeduction
	}

	if months := MonthsBetween(f.LastActivityDate, now); months > InactiveMonths {
		issues = append(issues, issue(model.IssueInactive, model.SeverityMedium, fmt.Sprintf(descInactiveFmt, months)))
		deduction += InactiveDeduction
	}

	score := model.MaxScore - deduction
	if score < 0 {
		score = 0
	}
	return score, issues
}

// Analyze scores f and wraps the outcome in an AnalysisResult with both
// user flags cleared.
func Analyze(f model.Follower, now time.Time) model.AnalysisResult {
	score, issues := Score(f, now)
	return model.AnalysisResult{
		ID:        model.ResultID(f.ID),
		Follower:  f,
		RealScore: score,
		Issues:    issues,
	}
}

// MonthsBetween returns the calendar month difference from then to now,
// ignoring the day of month: 31 Jan to 1 Feb is one month.
// Both times are compared in UTC. The result is negative when then is after now.
func MonthsBetween(then, now time.Time) int {
	then = then.UTC()
	now = now.UTC()
	return (now.Year()-then.Year())*12 + int(now.Month()) - int(then.Month())
}
