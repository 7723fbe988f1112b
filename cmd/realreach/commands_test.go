package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/realreach/internal/auth"
	"github.com/nao1215/realreach/internal/config"
	"github.com/nao1215/realreach/internal/database"
	"github.com/nao1215/realreach/internal/model"
	"github.com/nao1215/realreach/internal/report"
)

// cliEnv is an isolated data directory and config file for running the CLI.
type cliEnv struct {
	dir        string
	configPath string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()

	dir := t.TempDir()
	configPath := filepath.Join(dir, config.DefaultConfigFile)
	if err := os.WriteFile(configPath, []byte("defaults:\n  loginDelay: 0s\n"), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return &cliEnv{dir: dir, configPath: configPath}
}

// run executes the root command with args and returns stdout and stderr.
func (e *cliEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--data-dir", e.dir, "--config", e.configPath}, args...))

	err := cmd.ExecuteContext(t.Context())
	return stdout.String(), stderr.String(), err
}

// mustRun is run that fails the test on error.
func (e *cliEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()

	stdout, stderr, err := e.run(t, args...)
	if err != nil {
		t.Fatalf("realreach %s failed: %v\nstderr: %s", strings.Join(args, " "), err, stderr)
	}
	return stdout
}

var demoUsername = auth.DemoUser(model.PlatformTwitter).Username

func decodeJSON[T any](t *testing.T, s string) T {
	t.Helper()

	var v T
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, s)
	}
	return v
}

func TestCLIWorkflow(t *testing.T) {
	t.Parallel()

	env := newCLIEnv(t)

	if _, _, err := env.run(t, "whoami"); !errors.Is(err, auth.ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn before login, got %v", err)
	}
	if _, _, err := env.run(t, "analyze", "-q"); !errors.Is(err, auth.ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn for analyze, got %v", err)
	}
	if _, _, err := env.run(t, "login", "myspace"); !errors.Is(err, model.ErrUnsupportedPlatform) {
		t.Fatalf("expected ErrUnsupportedPlatform, got %v", err)
	}

	out := env.mustRun(t, "login", "twitter")
	if !strings.Contains(out, "@"+demoUsername) {
		t.Errorf("unexpected login output: %q", out)
	}
	out = env.mustRun(t, "whoami")
	if !strings.Contains(out, "@"+demoUsername) || !strings.Contains(out, "Twitter") {
		t.Errorf("unexpected whoami output: %q", out)
	}

	export := decodeJSON[report.Export](t, env.mustRun(t, "analyze", "--count", "10", "--seed", "7", "-q", "--json"))
	if export.Platform != model.PlatformTwitter {
		t.Errorf("expected twitter export, got %q", export.Platform)
	}
	if export.Summary.TotalFollowers != 10 {
		t.Errorf("expected 10 followers, got %d", export.Summary.TotalFollowers)
	}
	if len(export.SuspiciousFollowers) != export.Summary.SuspiciousCount {
		t.Errorf("suspicious list has %d entries, summary says %d",
			len(export.SuspiciousFollowers), export.Summary.SuspiciousCount)
	}

	sessions := decodeJSON[[]sessionOverview](t, env.mustRun(t, "sessions", "--json"))
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	sessionID := sessions[0].ID
	if !strings.HasPrefix(sessionID, "session_") {
		t.Errorf("unexpected session id %q", sessionID)
	}

	all := decodeJSON[[]model.AnalysisResult](t, env.mustRun(t, "results", sessionID, "--json"))
	if len(all) != 10 {
		t.Fatalf("expected 10 results, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].RealScore < all[i].RealScore {
			t.Errorf("default order must be score descending: %d before %d", all[i-1].RealScore, all[i].RealScore)
		}
	}

	low := decodeJSON[[]model.AnalysisResult](t, env.mustRun(t, "results", sessionID, "--max", "49", "--json"))
	if len(low) != export.Summary.SuspiciousCount {
		t.Errorf("expected %d suspicious results, got %d", export.Summary.SuspiciousCount, len(low))
	}
	if _, _, err := env.run(t, "results", sessionID, "--min", "80", "--max", "20"); err == nil {
		t.Error("expected error for inverted score range")
	}

	t.Run("mark and hide toggle", func(t *testing.T) {
		resultID := all[0].ID

		out := env.mustRun(t, "mark", sessionID, resultID)
		if !strings.Contains(out, "now marked suspicious") {
			t.Errorf("unexpected mark output: %q", out)
		}
		marked := decodeJSON[[]model.AnalysisResult](t, env.mustRun(t, "results", sessionID, "--marked", "marked", "--json"))
		if len(marked) != 1 || marked[0].ID != resultID {
			t.Errorf("expected only %s marked, got %v", resultID, marked)
		}
		out = env.mustRun(t, "mark", sessionID, resultID)
		if !strings.Contains(out, "no longer marked suspicious") {
			t.Errorf("unexpected second mark output: %q", out)
		}

		env.mustRun(t, "hide", sessionID, resultID)
		visible := decodeJSON[[]model.AnalysisResult](t, env.mustRun(t, "results", sessionID, "--hide-hidden", "--json"))
		if len(visible) != len(all)-1 {
			t.Errorf("expected %d visible results, got %d", len(all)-1, len(visible))
		}

		if _, _, err := env.run(t, "mark", sessionID, "analysis_missing"); err == nil {
			t.Error("expected error for unknown result")
		}
	})

	t.Run("export", func(t *testing.T) {
		path := filepath.Join(env.dir, "reports", "out.json")
		_, stderr, err := env.run(t, "export", sessionID, "-o", path)
		if err != nil {
			t.Fatalf("export failed: %v", err)
		}
		if !strings.Contains(stderr, path) {
			t.Errorf("expected export message naming %s, got %q", path, stderr)
		}
		data, err := os.ReadFile(path) //nolint:gosec // test file
		if err != nil {
			t.Fatalf("failed to read export: %v", err)
		}
		fromFile := decodeJSON[report.Export](t, string(data))
		if fromFile.User != demoUsername {
			t.Errorf("expected user %q, got %q", demoUsername, fromFile.User)
		}

		md := env.mustRun(t, "export", sessionID, "-o", "-", "--markdown")
		if !strings.Contains(md, "Followers Analyzed") {
			t.Errorf("expected markdown report, got %q", md)
		}
	})

	out = env.mustRun(t, "delete", sessionID)
	if !strings.Contains(out, "Deleted session "+sessionID) {
		t.Errorf("unexpected delete output: %q", out)
	}
	if _, _, err := env.run(t, "results", sessionID); !errors.Is(err, database.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound after delete, got %v", err)
	}

	out = env.mustRun(t, "logout")
	if !strings.Contains(out, "Logged out") {
		t.Errorf("unexpected logout output: %q", out)
	}
	if _, _, err := env.run(t, "sessions"); !errors.Is(err, auth.ErrNotLoggedIn) {
		t.Errorf("expected ErrNotLoggedIn after logout, got %v", err)
	}
}

func TestAnalyzeFromFile(t *testing.T) {
	t.Parallel()

	env := newCLIEnv(t)
	followers := `[
  {"id": "1", "username": "alice", "avatarUrl": "https://example.com/a.png", "bio": "Coffee and code",
   "followerCount": 120, "followingCount": 80, "tweetCount": 900,
   "lastActivityDate": "2025-06-01T00:00:00Z", "joinDate": "2020-01-01T00:00:00Z"},
  {"id": "2", "username": "bob", "bio": "follow back",
   "followerCount": 3, "followingCount": 450, "tweetCount": 0,
   "lastActivityDate": "2024-01-01T00:00:00Z", "joinDate": "2023-12-01T00:00:00Z"},
  {"id": "3", "username": "carol", "followerCount": 10, "followingCount": 10,
   "lastActivityDate": "2024-01-01T00:00:00Z", "joinDate": "2023-12-01T00:00:00Z"}
]`
	path := filepath.Join(env.dir, "followers.json")
	if err := os.WriteFile(path, []byte(followers), 0600); err != nil {
		t.Fatalf("failed to write followers: %v", err)
	}

	env.mustRun(t, "login", "instagram")

	t.Run("all followers", func(t *testing.T) {
		export := decodeJSON[report.Export](t, env.mustRun(t, "analyze", "--source", path, "-q", "--json"))
		if export.Platform != model.PlatformInstagram {
			t.Errorf("expected instagram, got %q", export.Platform)
		}
		if export.Summary.TotalFollowers != 3 {
			t.Errorf("expected 3 followers, got %d", export.Summary.TotalFollowers)
		}
	})

	t.Run("count limits the file", func(t *testing.T) {
		export := decodeJSON[report.Export](t, env.mustRun(t, "analyze", "--source", path, "-n", "2", "-q", "--json"))
		if export.Summary.TotalFollowers != 2 {
			t.Errorf("expected 2 followers, got %d", export.Summary.TotalFollowers)
		}
	})

	t.Run("progress goes to stderr", func(t *testing.T) {
		stdout, stderr, err := env.run(t, "analyze", "--source", path, "--markdown")
		if err != nil {
			t.Fatalf("analyze failed: %v", err)
		}
		if !strings.Contains(stderr, "Scoring followers... 3/3") || !strings.Contains(stderr, "Saved session") {
			t.Errorf("unexpected progress output: %q", stderr)
		}
		if !strings.Contains(stdout, "Followers Analyzed") {
			t.Errorf("expected markdown on stdout, got %q", stdout)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, _, err := env.run(t, "analyze", "--source", filepath.Join(env.dir, "none.json"), "-q"); err == nil {
			t.Error("expected error for missing follower file")
		}
	})

	t.Run("conflicting formats", func(t *testing.T) {
		_, _, err := env.run(t, "analyze", "--source", path, "--json", "--markdown")
		if !errors.Is(err, config.ErrConflictingReportFormats) {
			t.Errorf("expected ErrConflictingReportFormats, got %v", err)
		}
	})
}
