package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/realreach/internal/model"
)

// SimpleWriter outputs human-readable text reports for the terminal.
// Output is plain ASCII so it can be piped to files or other tools.
type SimpleWriter struct {
	baseWriter

	// showEmpty prints the results section even when it has no entries.
	showEmpty bool

	// verbose lists issue descriptions under each result.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the session header, summary and every result.
func (w *SimpleWriter) Write(session *model.AnalysisSession) (int, error) {
	return w.WriteResults(session, session.Results)
}

// WriteResults outputs the session header, summary and the given results.
func (w *SimpleWriter) WriteResults(session *model.AnalysisSession, results []model.AnalysisResult) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, session)
	w.writeSummary(&sb, session)
	w.writeResults(&sb, session, results)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// WriteSessions outputs a one-line overview per session.
func (w *SimpleWriter) WriteSessions(sessions []*model.AnalysisSession) (int, error) {
	var sb strings.Builder

	if len(sessions) == 0 {
		sb.WriteString("No analysis sessions yet. Run 'realreach analyze' to create one.\n")
		return w.output.Write([]byte(sb.String()))
	}

	sb.WriteString(fmt.Sprintf("%-22s  %-10s  %-20s  %9s  %10s  %8s  %7s\n",
		"ID", "PLATFORM", "DATE", "FOLLOWERS", "SUSPICIOUS", "INACTIVE", "AVERAGE"))
	for _, s := range sessions {
		sb.WriteString(fmt.Sprintf("%-22s  %-10s  %-20s  %9d  %10d  %8d  %7.1f\n",
			s.ID,
			PlatformTitle(s.Platform),
			s.Date.Local().Format("2006-01-02 15:04:05"),
			s.TotalFollowers,
			s.Summary.SuspiciousCount,
			s.Summary.InactiveCount,
			s.Summary.AverageRealScore,
		))
	}
	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with session information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, session *model.AnalysisSession) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                      REALREACH FOLLOWER ANALYSIS\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Session:        %s\n", session.ID))
	sb.WriteString(fmt.Sprintf("Platform:       %s\n", PlatformTitle(session.Platform)))
	if session.Username != "" {
		sb.WriteString(fmt.Sprintf("Account:        @%s\n", session.Username))
	}
	sb.WriteString(fmt.Sprintf("Analysis Date:  %s\n", session.Date.Format(displayDate)))
	sb.WriteString("\n")
}

// writeSummary writes the aggregate counters.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, session *model.AnalysisSession) {
	s := session.Summary

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  FOLLOWERS:   %d (%d analyzed)\n", session.TotalFollowers, session.AnalyzedFollowers))
	sb.WriteString(fmt.Sprintf("  AVERAGE:     %.1f / %d\n", s.AverageRealScore, model.MaxScore))
	sb.WriteString(fmt.Sprintf("  SUSPICIOUS:  %d (%.1f%%)\n", s.SuspiciousCount, s.SuspiciousPercentage))
	sb.WriteString(fmt.Sprintf("  INACTIVE:    %d (%.1f%%)\n", s.InactiveCount, s.InactivePercentage))
	if marked := session.MarkedCount(); marked > 0 {
		sb.WriteString(fmt.Sprintf("  MARKED:      %d\n", marked))
	}
	sb.WriteString("\n")
}

// writeResults writes one line per result.
func (w *SimpleWriter) writeResults(sb *strings.Builder, session *model.AnalysisSession, results []model.AnalysisResult) {
	if len(results) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("RESULTS (%d of %d)\n", len(results), len(session.Results)))
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(results) == 0 {
		sb.WriteString("  No results match the filters\n\n")
		return
	}

	for i := range results {
		w.writeResult(sb, &results[i])
	}
	sb.WriteString("\n")
}

// writeResult writes a single result line and, when verbose, its issues.
func (w *SimpleWriter) writeResult(sb *strings.Builder, r *model.AnalysisResult) {
	flags := ""
	if r.IsMarkedSuspicious {
		flags += " [marked]"
	}
	if r.IsHidden {
		flags += " [hidden]"
	}

	sb.WriteString(fmt.Sprintf("  [%s] %3d  @%-28s %s%s\n",
		bandIndicator(r.Band()),
		r.RealScore,
		truncateString(r.Follower.Username, 28),
		r.ID,
		flags,
	))

	if !w.verbose {
		return
	}
	for _, issue := range r.Issues {
		sb.WriteString(fmt.Sprintf("         - %s (%s)\n", issue.Description, issue.Severity))
	}
}

// bandIndicator returns a visual indicator for a score band.
func bandIndicator(b model.Band) string {
	switch b {
	case model.BandLikelyReal:
		return "+"
	case model.BandQuestionable:
		return "?"
	case model.BandLikelyFake:
		return "!"
	default:
		return " "
	}
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by RealReach\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
