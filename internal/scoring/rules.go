package scoring

import (
	"regexp"

	"github.com/nao1215/realreach/internal/model"
)

// Deductions applied by each rule.
const (
	MissingAvatarDeduction = 20
	EmptyBioDeduction      = 10
	SpamKeywordsDeduction  = 30
	LowRatioDeduction      = 15
	InactiveDeduction      = 15
)

// Thresholds used by the rules.
const (
	// LowRatioMaxFollowers is the follower count below which the ratio rule may match.
	LowRatioMaxFollowers = 10

	// LowRatioMinFollowing is the following count above which the ratio rule may match.
	LowRatioMinFollowing = 300

	// InactiveMonths is the number of calendar months without activity that is tolerated.
	InactiveMonths = 3
)

// SpamKeywords are the phrases that mark a bio as spam.
// Matching is case-insensitive and substring based.
var SpamKeywords = []string{
	"crypto",
	"giveaway",
	"cashapp",
	"click",
	"link in bio",
	"follow for follow",
	"nft",
	"bitcoin",
	"investment",
}

var spamPattern = regexp.MustCompile(`(?i)crypto|giveaway|cashapp|click|link in bio|follow for follow|nft|bitcoin|investment`)

// ContainsSpamKeywords reports whether text matches any spam keyword.
func ContainsSpamKeywords(text string) bool {
	return spamPattern.MatchString(text)
}

// Issue descriptions with a fixed wording.
const (
	descMissingAvatar = "No profile picture set"
	descEmptyBio      = "Empty bio"
	descSpamKeywords  = "Bio contains potential spam keywords"
	descLowRatio      = "Unusually low follower to following ratio"
	descInactiveFmt   = "Inactive for %d months"
)

// issue builds a FollowerIssue.
func issue(t model.IssueType, severity model.Severity, description string) model.FollowerIssue {
	return model.FollowerIssue{Type: t, Severity: severity, Description: description}
}
