package database

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/nao1215/realreach/internal/model"
)

var baseDate = time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)

// newSession creates a valid session with one result per score.
func newSession(id, userID string, date time.Time, scores ...int) *model.AnalysisSession {
	s := &model.AnalysisSession{
		ID:       id,
		UserID:   userID,
		Username: "techuser",
		Platform: model.PlatformTwitter,
		Date:     date,
	}
	for i, score := range scores {
		fid := id + "_f" + string(rune('a'+i))
		s.Results = append(s.Results, model.AnalysisResult{
			ID:        model.ResultID(fid),
			Follower:  model.Follower{ID: fid, Username: fid, LastActivityDate: date},
			RealScore: score,
			Issues:    []model.FollowerIssue{},
		})
	}
	s.TotalFollowers = len(scores)
	return s
}

// storeFactories returns one constructor per store that runs without
// external services.
func storeFactories() map[string]func(t *testing.T) SessionUserStore {
	return map[string]func(t *testing.T) SessionUserStore{
		"memory": func(*testing.T) SessionUserStore {
			return NewMemoryStore()
		},
		"sqlite": func(t *testing.T) SessionUserStore {
			t.Helper()
			db, err := Open(t.TempDir(), DefaultOptions())
			if err != nil {
				t.Fatalf("failed to open database: %v", err)
			}
			t.Cleanup(func() { _ = db.Close() })
			return db
		},
	}
}

// TestStores runs the same behavior checks against every store.
func TestStores(t *testing.T) {
	t.Parallel()

	for name, factory := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			t.Run("put and get", func(t *testing.T) {
				t.Parallel()
				ctx := context.Background()
				store := factory(t)

				s := newSession("session_1", "user123", baseDate, 85, 40, 55)
				if err := store.Put(ctx, s); err != nil {
					t.Fatalf("Put failed: %v", err)
				}

				got, err := store.Get(ctx, "session_1")
				if err != nil {
					t.Fatalf("Get failed: %v", err)
				}
				if diff := cmp.Diff(s, got); diff != "" {
					t.Errorf("session mismatch (-want +got):\n%s", diff)
				}
				if got.Summary.SuspiciousCount != 1 || got.Summary.AverageRealScore != 60 {
					t.Errorf("unexpected summary: %+v", got.Summary)
				}
			})

			t.Run("put recomputes stale aggregates", func(t *testing.T) {
				t.Parallel()
				ctx := context.Background()
				store := factory(t)

				s := newSession("session_1", "user123", baseDate, 10, 20)
				s.Summary = model.Summary{TotalFollowers: 99, AverageRealScore: 99}
				if err := store.Put(ctx, s); err != nil {
					t.Fatalf("Put failed: %v", err)
				}
				got, err := store.Get(ctx, "session_1")
				if err != nil {
					t.Fatalf("Get failed: %v", err)
				}
				want := model.Summarize(got.Results)
				if diff := cmp.Diff(want, got.Summary); diff != "" {
					t.Errorf("summary mismatch (-want +got):\n%s", diff)
				}
			})

			t.Run("put rejects invalid session", func(t *testing.T) {
				t.Parallel()
				store := factory(t)

				s := newSession("", "user123", baseDate, 10)
				if err := store.Put(context.Background(), s); !errors.Is(err, model.ErrInvalidSession) {
					t.Errorf("expected ErrInvalidSession, got %v", err)
				}
			})

			t.Run("put replaces", func(t *testing.T) {
				t.Parallel()
				ctx := context.Background()
				store := factory(t)

				s := newSession("session_1", "user123", baseDate, 85)
				if err := store.Put(ctx, s); err != nil {
					t.Fatalf("Put failed: %v", err)
				}
				s.Results[0].IsMarkedSuspicious = true
				if err := store.Put(ctx, s); err != nil {
					t.Fatalf("Put failed: %v", err)
				}

				got, err := store.Get(ctx, "session_1")
				if err != nil {
					t.Fatalf("Get failed: %v", err)
				}
				if !got.Results[0].IsMarkedSuspicious {
					t.Error("expected replaced session to be stored")
				}
				all, err := store.List(ctx, "")
				if err != nil {
					t.Fatalf("List failed: %v", err)
				}
				if len(all) != 1 {
					t.Errorf("expected 1 session, got %d", len(all))
				}
			})

			t.Run("get unknown", func(t *testing.T) {
				t.Parallel()
				store := factory(t)

				_, err := store.Get(context.Background(), "session_missing")
				if !errors.Is(err, ErrSessionNotFound) {
					t.Errorf("expected ErrSessionNotFound, got %v", err)
				}
			})

			t.Run("list newest first per user", func(t *testing.T) {
				t.Parallel()
				ctx := context.Background()
				store := factory(t)

				sessions := []*model.AnalysisSession{
					newSession("session_1", "user123", baseDate, 90),
					newSession("session_3", "user123", baseDate.Add(2*time.Hour), 70),
					newSession("session_2", "user123", baseDate.Add(time.Hour), 50),
					newSession("session_4", "other", baseDate.Add(3*time.Hour), 30),
				}
				for _, s := range sessions {
					if err := store.Put(ctx, s); err != nil {
						t.Fatalf("Put failed: %v", err)
					}
				}

				mine, err := store.List(ctx, "user123")
				if err != nil {
					t.Fatalf("List failed: %v", err)
				}
				if diff := cmp.Diff([]string{"session_3", "session_2", "session_1"}, ids(mine)); diff != "" {
					t.Errorf("order mismatch (-want +got):\n%s", diff)
				}

				all, err := store.List(ctx, "")
				if err != nil {
					t.Fatalf("List failed: %v", err)
				}
				if diff := cmp.Diff([]string{"session_4", "session_3", "session_2", "session_1"}, ids(all)); diff != "" {
					t.Errorf("order mismatch (-want +got):\n%s", diff)
				}

				none, err := store.List(ctx, "nobody")
				if err != nil {
					t.Fatalf("List failed: %v", err)
				}
				if none == nil || len(none) != 0 {
					t.Errorf("expected empty list, got %v", none)
				}
			})

			t.Run("delete", func(t *testing.T) {
				t.Parallel()
				ctx := context.Background()
				store := factory(t)

				if err := store.Put(ctx, newSession("session_1", "user123", baseDate, 90)); err != nil {
					t.Fatalf("Put failed: %v", err)
				}
				if err := store.Delete(ctx, "session_1"); err != nil {
					t.Fatalf("Delete failed: %v", err)
				}
				if _, err := store.Get(ctx, "session_1"); !errors.Is(err, ErrSessionNotFound) {
					t.Errorf("expected ErrSessionNotFound after delete, got %v", err)
				}
				if err := store.Delete(ctx, "session_1"); !errors.Is(err, ErrSessionNotFound) {
					t.Errorf("expected ErrSessionNotFound on second delete, got %v", err)
				}
			})

			t.Run("user lifecycle", func(t *testing.T) {
				t.Parallel()
				ctx := context.Background()
				store := factory(t)

				if _, err := store.LoadUser(ctx); !errors.Is(err, ErrUserNotFound) {
					t.Errorf("expected ErrUserNotFound, got %v", err)
				}

				user := &model.User{ID: "user123", Username: "techuser", Platform: model.PlatformInstagram, FollowerCount: 1243}
				if err := store.SaveUser(ctx, user); err != nil {
					t.Fatalf("SaveUser failed: %v", err)
				}
				user2 := *user
				user2.Platform = model.PlatformFacebook
				if err := store.SaveUser(ctx, &user2); err != nil {
					t.Fatalf("SaveUser failed: %v", err)
				}

				got, err := store.LoadUser(ctx)
				if err != nil {
					t.Fatalf("LoadUser failed: %v", err)
				}
				if diff := cmp.Diff(&user2, got); diff != "" {
					t.Errorf("user mismatch (-want +got):\n%s", diff)
				}

				if err := store.DeleteUser(ctx); err != nil {
					t.Fatalf("DeleteUser failed: %v", err)
				}
				if err := store.DeleteUser(ctx); err != nil {
					t.Errorf("second DeleteUser failed: %v", err)
				}
				if _, err := store.LoadUser(ctx); !errors.Is(err, ErrUserNotFound) {
					t.Errorf("expected ErrUserNotFound after delete, got %v", err)
				}
			})
		})
	}
}

func ids(sessions []*model.AnalysisSession) []string {
	out := make([]string, len(sessions))
	for i, s := range sessions {
		out[i] = s.ID
	}
	return out
}

// TestMemoryStoreIsolation tests that stored sessions can not be changed
// through pointers handed in or out.
func TestMemoryStoreIsolation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	s := newSession("session_1", "user123", baseDate, 85)
	if err := store.Put(ctx, s); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	s.Results[0].IsHidden = true
	got, err := store.Get(ctx, "session_1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Results[0].IsHidden {
		t.Error("mutation of the input leaked into the store")
	}

	got.Results[0].IsMarkedSuspicious = true
	again, err := store.Get(ctx, "session_1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if again.Results[0].IsMarkedSuspicious {
		t.Error("mutation of a returned session leaked into the store")
	}
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dbDir, FileName)); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
		if db.Path() != filepath.Join(dbDir, FileName) {
			t.Errorf("unexpected path %q", db.Path())
		}
	})

	t.Run("CreateIfNotExists=false returns error when database does not exist", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "nonexistent-db")
		_, err := Open(dbDir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err == nil {
			t.Fatal("expected error when CreateIfNotExists=false and database does not exist")
		}
		if !strings.Contains(err.Error(), "database not found") {
			t.Errorf("expected informative error, got %q", err.Error())
		}
		if _, statErr := os.Stat(dbDir); !os.IsNotExist(statErr) {
			t.Error("database directory should not have been created")
		}
	})

	t.Run("CreateIfNotExists=false opens existing database", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "existing-db")
		db1, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		if err := db1.Put(context.Background(), newSession("session_1", "user123", baseDate, 70)); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		_ = db1.Close()

		db2, err := Open(dbDir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to open existing database: %v", err)
		}
		defer db2.Close()

		if _, err := db2.Get(context.Background(), "session_1"); err != nil {
			t.Errorf("expected session to persist across reopen: %v", err)
		}
	})
}

// TestSQLiteStoreRejectsCorruptRow tests that a stored row failing
// validation is reported by Get and skipped by List.
func TestSQLiteStoreRejectsCorruptRow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	opts := DefaultOptions()
	opts.Logger = slog.New(slog.DiscardHandler)
	db, err := Open(t.TempDir(), opts)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	corrupt := `{"id":"session_x","platform":"myspace","results":[]}`
	_, err = db.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, platform, date, session_json) VALUES (?, ?, ?, ?, ?)`,
		"session_x", "user123", "myspace", "2025-01-01T00:00:00.000000000Z", corrupt)
	if err != nil {
		t.Fatalf("failed to insert row: %v", err)
	}

	if _, err := db.Get(ctx, "session_x"); !errors.Is(err, model.ErrInvalidSession) {
		t.Errorf("expected ErrInvalidSession, got %v", err)
	}

	if err := db.Put(ctx, newSession("session_1", "user123", baseDate, 70)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	sessions, err := db.List(ctx, "user123")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if diff := cmp.Diff([]string{"session_1"}, ids(sessions)); diff != "" {
		t.Errorf("sessions mismatch (-want +got):\n%s", diff)
	}
}
