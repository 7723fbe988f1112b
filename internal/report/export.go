package report

import (
	"fmt"
	"time"

	"github.com/nao1215/realreach/internal/model"
)

// exportDateLayout matches the ISO-8601 form with millisecond precision
// used by browser exports (e.g. 2025-06-15T12:00:00.000Z).
const exportDateLayout = "2006-01-02T15:04:05.000Z07:00"

// Export is the document written by "realreach export".
type Export struct {
	AnalysisDate        string               `json:"analysisDate"`
	Platform            model.Platform       `json:"platform"`
	User                string               `json:"user"`
	Summary             ExportSummary        `json:"summary"`
	SuspiciousFollowers []SuspiciousFollower `json:"suspiciousFollowers"`
}

// ExportSummary holds the session aggregates included in an export.
type ExportSummary struct {
	TotalFollowers   int     `json:"totalFollowers"`
	SuspiciousCount  int     `json:"suspiciousCount"`
	InactiveCount    int     `json:"inactiveCount"`
	AverageRealScore float64 `json:"averageRealScore"`
}

// SuspiciousFollower is one follower scoring below model.SuspiciousThreshold.
type SuspiciousFollower struct {
	Username  string   `json:"username"`
	RealScore int      `json:"realScore"`
	Issues    []string `json:"issues"`
}

// NewExport builds the export document of a session. Aggregates are
// recomputed on a copy; session is not modified.
func NewExport(session *model.AnalysisSession) *Export {
	session = session.Clone()
	session.Recompute()

	suspicious := session.SuspiciousResults()
	followers := make([]SuspiciousFollower, len(suspicious))
	for i := range suspicious {
		followers[i] = SuspiciousFollower{
			Username:  suspicious[i].Follower.Username,
			RealScore: suspicious[i].RealScore,
			Issues:    suspicious[i].IssueDescriptions(),
		}
	}

	return &Export{
		AnalysisDate: session.Date.UTC().Format(exportDateLayout),
		Platform:     session.Platform,
		User:         session.Username,
		Summary: ExportSummary{
			TotalFollowers:   session.TotalFollowers,
			SuspiciousCount:  session.Summary.SuspiciousCount,
			InactiveCount:    session.Summary.InactiveCount,
			AverageRealScore: session.Summary.AverageRealScore,
		},
		SuspiciousFollowers: followers,
	}
}

// ExportFileName returns the default file name of an export made at now,
// e.g. realreach-analysis-2025-06-15.json. The date is taken in UTC.
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("realreach-analysis-%s.json", now.UTC().Format("2006-01-02"))
}
