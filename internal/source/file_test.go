package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/realreach/internal/model"
	"github.com/nao1215/realreach/internal/scoring"
)

const jsonFollowers = `[
  {
    "id": "1",
    "username": "alice",
    "name": "Alice",
    "avatarUrl": "https://example.com/a.png",
    "bio": "<p>Coffee &amp; <b>code</b></p>",
    "followerCount": 120,
    "followingCount": 80,
    "tweetCount": 900,
    "lastActivityDate": "2025-06-01T00:00:00Z",
    "joinDate": "2020-01-01T00:00:00Z",
    "isVerified": true,
    "isProtected": false
  },
  {
    "id": "2",
    "username": "bob",
    "name": "Bob",
    "avatarUrl": null,
    "bio": null,
    "followerCount": 3,
    "followingCount": 450,
    "tweetCount": 0,
    "lastActivityDate": "2024-01-01T00:00:00Z",
    "joinDate": "2023-12-01T00:00:00Z"
  }
]`

const yamlFollowers = `- id: "1"
  username: alice
  name: Alice
  avatarUrl: https://example.com/a.png
  bio: Just here to observe
  followerCount: 120
  followingCount: 80
  tweetCount: 900
  lastActivityDate: 2025-06-01T00:00:00Z
  joinDate: 2020-01-01T00:00:00Z
- id: "2"
  username: bob
  bio: ""
  followerCount: 3
  followingCount: 450
  lastActivityDate: 2024-01-01T00:00:00Z
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// TestFileSourceJSON tests importing a JSON export.
func TestFileSourceJSON(t *testing.T) {
	t.Parallel()

	s := NewFileSource(writeFile(t, "followers.json", jsonFollowers))
	if s.Name() != "file" {
		t.Errorf("expected name file, got %q", s.Name())
	}

	followers, err := s.Followers(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(followers) != 2 {
		t.Fatalf("expected 2 followers, got %d", len(followers))
	}

	alice := followers[0]
	if alice.BioText() != "Coffee & code" {
		t.Errorf("expected markup stripped from bio, got %q", alice.BioText())
	}
	if alice.PostCount != 900 || !alice.IsVerified {
		t.Errorf("unexpected fields: %+v", alice)
	}
	if !alice.LastActivityDate.Equal(time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected activity date: %v", alice.LastActivityDate)
	}

	bob := followers[1]
	if bob.HasAvatar() || bob.Bio != nil {
		t.Errorf("expected nil avatar and bio, got %v %v", bob.AvatarURL, bob.Bio)
	}
}

// TestFileSourceYAML tests importing a YAML export.
func TestFileSourceYAML(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"followers.yaml", "followers.YML"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			followers, err := NewFileSource(writeFile(t, name, yamlFollowers)).Followers(context.Background(), nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(followers) != 2 {
				t.Fatalf("expected 2 followers, got %d", len(followers))
			}
			if followers[0].Username != "alice" || followers[0].FollowerCount != 120 {
				t.Errorf("unexpected first follower: %+v", followers[0])
			}
			if followers[1].Bio == nil || *followers[1].Bio != "" {
				t.Errorf("expected empty, non-nil bio, got %v", followers[1].Bio)
			}
			if followers[1].HasAvatar() {
				t.Error("expected no avatar")
			}
		})
	}
}

// TestFileSourceLimit tests that WithLimit truncates the list.
func TestFileSourceLimit(t *testing.T) {
	t.Parallel()

	followers, err := NewFileSource(writeFile(t, "f.json", jsonFollowers), WithLimit(1)).
		Followers(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(followers) != 1 || followers[0].Username != "alice" {
		t.Errorf("expected only alice, got %+v", followers)
	}
}

// TestFileSourceErrors tests failure cases.
func TestFileSourceErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := NewFileSource(filepath.Join(t.TempDir(), "none.json")).Followers(context.Background(), nil)
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected not exist error, got %v", err)
		}
	})

	t.Run("unknown extension", func(t *testing.T) {
		t.Parallel()

		_, err := NewFileSource(writeFile(t, "f.csv", "id,username\n")).Followers(context.Background(), nil)
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("expected ErrUnsupportedFormat, got %v", err)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		t.Parallel()

		_, err := NewFileSource(writeFile(t, "f.json", "{not json")).Followers(context.Background(), nil)
		if err == nil {
			t.Error("expected decode error")
		}
	})
}

// TestDecodePlainBios tests that bios without markup are kept verbatim, so
// a whitespace-only bio still counts as a bio when scored.
func TestDecodePlainBios(t *testing.T) {
	t.Parallel()

	const doc = `[
  {"id": "1", "username": "spaces", "avatarUrl": "https://example.com/s.png", "bio": "   ",
   "followerCount": 120, "followingCount": 80,
   "lastActivityDate": "2025-06-01T00:00:00Z", "joinDate": "2020-01-01T00:00:00Z"},
  {"id": "2", "username": "tabs", "bio": "  two \t words "},
  {"id": "3", "username": "markup", "bio": "<br/>"}
]`

	followers, err := Decode(strings.NewReader(doc), ".json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name string
		want string
	}{
		{name: "whitespace only", want: "   "},
		{name: "plain text with spacing", want: "  two \t words "},
		{name: "markup without text", want: ""},
	}
	for i, tt := range tests {
		if got := followers[i].BioText(); got != tt.want {
			t.Errorf("%s: got bio %q, want %q", tt.name, got, tt.want)
		}
	}

	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	score, issues := scoring.Score(followers[0], now)
	if score != model.MaxScore || len(issues) != 0 {
		t.Errorf("whitespace-only bio: expected score %d without issues, got %d %v", model.MaxScore, score, issues)
	}
}

// TestDecodeEmpty tests that an empty document yields no followers.
func TestDecodeEmpty(t *testing.T) {
	t.Parallel()

	followers, err := Decode(strings.NewReader(""), ".yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if followers == nil || len(followers) != 0 {
		t.Errorf("expected empty slice, got %v", followers)
	}
}

// TestStripMarkup tests HTML reduction of bios.
func TestStripMarkup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain text", in: "Just here to observe", want: "Just here to observe"},
		{name: "whitespace collapsed", in: "  a \n\t b  ", want: "a b"},
		{name: "empty", in: "", want: ""},
		{name: "inline tags", in: "I <b>love</b> <i>Go</i>", want: "I love Go"},
		{name: "entities", in: "Tom &amp; Jerry", want: "Tom & Jerry"},
		{name: "block tags separate words", in: "<p>one</p><p>two</p>", want: "one two"},
		{name: "line break", in: "one<br>two", want: "one two"},
		{name: "script dropped", in: "hi<script>alert(1)</script> there", want: "hi there"},
		{name: "link text kept", in: `<a href="https://x.test">link in bio</a>`, want: "link in bio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := StripMarkup(tt.in); got != tt.want {
				t.Errorf("StripMarkup(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
