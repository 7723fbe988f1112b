package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/realreach/internal/model"
)

// MarkdownWriter outputs reports in Markdown format for sharing.
// Tables, GitHub alerts and a mermaid pie chart of issue types are
// produced with github.com/nao1215/markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the whole session in Markdown format.
func (w *MarkdownWriter) Write(session *model.AnalysisSession) (int, error) {
	return w.WriteResults(session, session.Results)
}

// WriteResults outputs the session overview and the given results.
func (w *MarkdownWriter) WriteResults(session *model.AnalysisSession, results []model.AnalysisResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, session)
	w.writeSummary(md, session)
	w.writeResults(md, results)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report title and session information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, session *model.AnalysisSession) {
	md.H1("RealReach Follower Analysis")
	md.PlainText("")

	account := "-"
	if session.Username != "" {
		account = "@" + session.Username
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Session", "`" + session.ID + "`"},
			{"Platform", PlatformTitle(session.Platform)},
			{"Account", account},
			{"Analysis Date", session.Date.Format(displayDate)},
			{"Followers Analyzed", strconv.Itoa(session.AnalyzedFollowers)},
		},
	})
	md.PlainText("")
}

// writeSummary writes the aggregate table, chart and alert.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, session *model.AnalysisSession) {
	s := session.Summary

	md.H2("Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Average Real Score", fmt.Sprintf("%.1f / %d", s.AverageRealScore, model.MaxScore)},
			{"Suspicious Followers", fmt.Sprintf("%d (%.1f%%)", s.SuspiciousCount, s.SuspiciousPercentage)},
			{"Inactive Followers", fmt.Sprintf("%d (%.1f%%)", s.InactiveCount, s.InactivePercentage)},
			{"Marked Suspicious", strconv.Itoa(session.MarkedCount())},
		},
	})
	md.PlainText("")

	if counts := session.IssueCounts(); len(counts) > 0 {
		w.writePieChart(md, counts)
	}

	w.writeAlert(md, s)
}

// writePieChart writes a mermaid pie chart of issue type frequencies.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, counts map[model.IssueType]int) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Issue Distribution"),
		piechart.WithShowData(true),
	)

	for _, t := range model.IssueTypes() {
		if n := counts[t]; n > 0 {
			chart.LabelAndIntValue(t.Title(), uint64(n))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an alert matching the share of suspicious followers.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, s model.Summary) {
	switch {
	case s.Empty():
		md.Note("No followers were analyzed.")
	case s.SuspiciousPercentage >= 50:
		md.Cautionf("%.1f%% of your followers look fake. Consider removing the accounts listed below.",
			s.SuspiciousPercentage)
	case s.SuspiciousPercentage >= 25:
		md.Warningf("%.1f%% of your followers look suspicious.", s.SuspiciousPercentage)
	case s.SuspiciousCount > 0:
		md.Importantf("%d follower(s) score below %d.", s.SuspiciousCount, model.SuspiciousThreshold)
	default:
		md.Tip("No suspicious followers detected.")
	}
	md.PlainText("")
}

// writeResults writes the result table.
func (w *MarkdownWriter) writeResults(md *markdown.Markdown, results []model.AnalysisResult) {
	md.H2("Followers")
	md.PlainText("")

	if len(results) == 0 {
		md.PlainText("No results match the filters.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(results))
	for i := range results {
		r := &results[i]
		issues := strings.Join(r.IssueDescriptions(), "; ")
		if issues == "" {
			issues = "-"
		}
		rows[i] = []string{
			"@" + truncateString(r.Follower.Username, 30),
			strconv.Itoa(r.RealScore),
			bandLabel(r.Band()),
			issues,
			flagLabel(r),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Username", "Score", "Assessment", "Issues", "Flags"},
		Rows:   rows,
	})
	md.PlainText("")
}

// bandLabel returns the display label of a score band.
func bandLabel(b model.Band) string {
	switch b {
	case model.BandLikelyReal:
		return "✅ Likely Real"
	case model.BandQuestionable:
		return "⚠️ Questionable"
	case model.BandLikelyFake:
		return "❌ Likely Fake"
	default:
		return "-"
	}
}

func flagLabel(r *model.AnalysisResult) string {
	var flags []string
	if r.IsMarkedSuspicious {
		flags = append(flags, "marked")
	}
	if r.IsHidden {
		flags = append(flags, "hidden")
	}
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, ", ")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [RealReach](https://github.com/nao1215/realreach)*")
}
