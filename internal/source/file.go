package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/realreach/internal/model"
	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"
)

// FileSource reads followers from an exported file.
//
// The file holds a list of followers using the same field names as the
// JSON representation of model.Follower. Files ending in .json are decoded
// as JSON, .yaml and .yml as YAML. Platform exports often keep markup in
// bios; bios carrying markup are reduced to their text content and other
// bios are kept as written.
type FileSource struct {
	path  string
	limit int
}

// FileOption configures a FileSource.
type FileOption func(*FileSource)

// WithLimit caps the number of followers returned. Non-positive values
// mean no limit.
func WithLimit(n int) FileOption {
	return func(s *FileSource) {
		if n > 0 {
			s.limit = n
		}
	}
}

// NewFileSource creates a FileSource reading path.
func NewFileSource(path string, opts ...FileOption) *FileSource {
	s := &FileSource{path: path}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns "file".
func (s *FileSource) Name() string {
	return "file"
}

// Followers reads and decodes the file. The user is not consulted.
func (s *FileSource) Followers(ctx context.Context, _ *model.User) ([]model.Follower, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Clean(s.path))
	if err != nil {
		return nil, fmt.Errorf("failed to read follower file: %w", err)
	}

	followers, err := Decode(bytes.NewReader(data), filepath.Ext(s.path))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.path, err)
	}

	if s.limit > 0 && len(followers) > s.limit {
		followers = followers[:s.limit]
	}
	return followers, nil
}

// Decode parses a follower list. ext selects the format and must be one of
// ".json", ".yaml" or ".yml".
func Decode(r io.Reader, ext string) ([]model.Follower, error) {
	var followers []model.Follower

	switch strings.ToLower(ext) {
	case ".json":
		if err := json.NewDecoder(r).Decode(&followers); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(r).Decode(&followers); err != nil && err != io.EOF {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	for i := range followers {
		if bio := followers[i].Bio; bio != nil && hasMarkup(*bio) {
			followers[i].Bio = model.StringPtr(StripMarkup(*bio))
		}
	}
	if followers == nil {
		followers = []model.Follower{}
	}
	return followers, nil
}

// hasMarkup reports whether s may hold tags or entities.
func hasMarkup(s string) bool {
	return strings.ContainsAny(s, "<&")
}

// StripMarkup returns the text content of an HTML fragment with runs of
// whitespace collapsed. Text inside script and style elements is dropped.
// Plain text passes through with only whitespace normalized.
func StripMarkup(s string) string {
	if !hasMarkup(s) {
		return strings.Join(strings.Fields(s), " ")
	}

	var b strings.Builder
	skip := 0
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.StartTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "script", "style":
				skip++
			case "br", "p", "div", "li":
				b.WriteByte(' ')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "script", "style":
				if skip > 0 {
					skip--
				}
			case "p", "div", "li":
				b.WriteByte(' ')
			}
		case html.SelfClosingTagToken:
			b.WriteByte(' ')
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}
