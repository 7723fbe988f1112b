package model

import (
	"fmt"
	"strings"
)

// IssueType identifies one of the heuristic checks applied to a follower.
// The set is closed; unknown values are rejected by ParseIssueType.
type IssueType string

// Issue types produced by the scoring heuristic.
const (
	// IssueMissingAvatar is raised when the follower has no profile picture.
	IssueMissingAvatar IssueType = "missing_avatar"

	// IssueSuspiciousBio is raised when the follower's bio is absent or empty.
	IssueSuspiciousBio IssueType = "suspicious_bio"

	// IssueLowRatio is raised when the follower follows many accounts but has
	// almost no followers of their own.
	IssueLowRatio IssueType = "low_ratio"

	// IssueInactive is raised when the follower has not been active for
	// more than three calendar months.
	IssueInactive IssueType = "inactive"

	// IssueSpamKeywords is raised when the bio contains common spam phrases.
	IssueSpamKeywords IssueType = "spam_keywords"
)

// IssueTypes returns all issue types in the order the scoring rules run.
func IssueTypes() []IssueType {
	return []IssueType{
		IssueMissingAvatar,
		IssueSuspiciousBio,
		IssueSpamKeywords,
		IssueLowRatio,
		IssueInactive,
	}
}

// String returns the string representation of the IssueType.
func (t IssueType) String() string {
	return string(t)
}

// IsValid returns true if t belongs to the closed issue set.
func (t IssueType) IsValid() bool {
	switch t {
	case IssueMissingAvatar, IssueSuspiciousBio, IssueLowRatio, IssueInactive, IssueSpamKeywords:
		return true
	default:
		return false
	}
}

// Title returns a short human-readable label used in reports.
func (t IssueType) Title() string {
	switch t {
	case IssueMissingAvatar:
		return "No Profile Picture"
	case IssueSuspiciousBio:
		return "Empty Bio"
	case IssueLowRatio:
		return "Low Follower Ratio"
	case IssueInactive:
		return "Inactive"
	case IssueSpamKeywords:
		return "Spam Keywords"
	default:
		return "Unknown"
	}
}

// ParseIssueType converts a string into an IssueType.
func ParseIssueType(s string) (IssueType, error) {
	t := IssueType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("unknown issue type %q", s)
	}
	return t, nil
}

// FollowerIssue is a single finding that contributed a deduction to a
// follower's score.
type FollowerIssue struct {
	// Type is the issue tag from the closed set.
	Type IssueType `json:"type"`

	// Description is a human-readable explanation.
	// For inactivity it embeds the exact number of months.
	Description string `json:"description"`

	// Severity is how strongly the issue indicates a fake follower.
	Severity Severity `json:"severity"`
}
