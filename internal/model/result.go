package model

// Score band thresholds used when presenting results.
const (
	// SuspiciousThreshold is the score below which a result counts as suspicious.
	SuspiciousThreshold = 50

	// LikelyRealThreshold is the lowest score presented as a likely real follower.
	LikelyRealThreshold = 70

	// QuestionableThreshold is the lowest score presented as questionable.
	QuestionableThreshold = 40

	// MaxScore is the score of a follower without any issue.
	MaxScore = 100
)

// Band groups scores for display.
type Band string

// Score bands.
const (
	BandLikelyReal   Band = "likely_real"
	BandQuestionable Band = "questionable"
	BandLikelyFake   Band = "likely_fake"
)

// AnalysisResult wraps a follower with its computed score and issue list
// plus the two flags the user can toggle.
type AnalysisResult struct {
	// ID identifies the result inside its session ("analysis_<followerID>").
	ID string `json:"id"`

	// Follower is the analyzed account.
	Follower Follower `json:"follower"`

	// RealScore is the realness score in [0,100].
	RealScore int `json:"realScore"`

	// Issues lists the findings that produced deductions, in rule order.
	Issues []FollowerIssue `json:"issues"`

	// IsMarkedSuspicious is set by the user.
	IsMarkedSuspicious bool `json:"isMarkedSuspicious"`

	// IsHidden is set by the user.
	IsHidden bool `json:"isHidden"`
}

// ResultID returns the result identifier for a follower.
func ResultID(followerID string) string {
	return "analysis_" + followerID
}

// HasIssue reports whether the result carries an issue of type t.
func (r *AnalysisResult) HasIssue(t IssueType) bool {
	for _, issue := range r.Issues {
		if issue.Type == t {
			return true
		}
	}
	return false
}

// HasAnyIssue reports whether the result carries at least one of types.
func (r *AnalysisResult) HasAnyIssue(types []IssueType) bool {
	for _, t := range types {
		if r.HasIssue(t) {
			return true
		}
	}
	return false
}

// IsSuspicious reports whether the score is below SuspiciousThreshold.
func (r *AnalysisResult) IsSuspicious() bool {
	return r.RealScore < SuspiciousThreshold
}

// Band returns the display band of the score.
func (r *AnalysisResult) Band() Band {
	switch {
	case r.RealScore >= LikelyRealThreshold:
		return BandLikelyReal
	case r.RealScore >= QuestionableThreshold:
		return BandQuestionable
	default:
		return BandLikelyFake
	}
}

// IssueDescriptions returns the descriptions of all issues in order.
func (r *AnalysisResult) IssueDescriptions() []string {
	descriptions := make([]string, len(r.Issues))
	for i, issue := range r.Issues {
		descriptions[i] = issue.Description
	}
	return descriptions
}
