package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/realreach/internal/model"
)

// JSONWriter outputs the export document, or raw results, as JSON.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with two space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the export document of the session.
func (w *JSONWriter) Write(session *model.AnalysisSession) (int, error) {
	return w.writeJSON(NewExport(session))
}

// WriteResults outputs the given results as a JSON array.
func (w *JSONWriter) WriteResults(_ *model.AnalysisSession, results []model.AnalysisResult) (int, error) {
	if results == nil {
		results = []model.AnalysisResult{}
	}
	return w.writeJSON(results)
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	data = append(data, '\n')

	return w.output.Write(data)
}
