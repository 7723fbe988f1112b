// Package report renders analysis sessions.
//
// This package contains writers for different output formats:
//   - SimpleWriter: human-readable text for terminal display
//   - JSONWriter: the export document consumed by other tools
//   - MarkdownWriter: a shareable Markdown report with tables and a chart
//
// The export document built by NewExport is the one structured format other
// programs depend on; its field names are stable.
package report
