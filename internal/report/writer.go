package report

import (
	"io"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/realreach/internal/model"
)

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs the whole session.
	// Returns the number of bytes written and any error encountered.
	Write(session *model.AnalysisSession) (int, error)

	// WriteResults outputs a subset of the session's results, typically
	// the output of a filter, in the given order.
	WriteResults(session *model.AnalysisSession, results []model.AnalysisResult) (int, error)
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// PlatformTitle returns the display name of a platform, e.g. "Twitter".
func PlatformTitle(p model.Platform) string {
	return cases.Title(language.English).String(p.String())
}

// displayDate is the layout used for dates in human-readable output.
const displayDate = "2006-01-02 15:04:05 MST"

// truncateString truncates a string to maxLen runes with ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
