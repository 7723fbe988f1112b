package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/realreach/internal/model"
)

// FileName is the name of the SQLite database file inside the data directory.
const FileName = "realreach.db"

// dateLayout stores session dates as fixed-width UTC text so that
// ORDER BY date sorts chronologically.
const dateLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore stores sessions and the logged in user in SQLite.
type SQLiteStore struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string

	// logger reports sessions skipped while listing.
	logger *slog.Logger
}

// Options configures SQLiteStore behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool

	// Logger receives warnings about unreadable rows. Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the store in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*SQLiteStore, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc creates it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{
		db:     db,
		dbPath: dbPath,
		logger: opts.Logger,
	}
	if store.logger == nil {
		store.logger = slog.Default()
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := store.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return store, nil
}

// Path returns the path of the database file.
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (s *SQLiteStore) createTables() error {
	schema := `
	-- Sessions are stored as JSON with their aggregates copied into columns
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		platform TEXT NOT NULL,
		date TEXT NOT NULL,
		total_followers INTEGER NOT NULL DEFAULT 0,
		suspicious_count INTEGER NOT NULL DEFAULT 0,
		inactive_count INTEGER NOT NULL DEFAULT 0,
		average_score REAL NOT NULL DEFAULT 0,
		session_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
	CREATE INDEX IF NOT EXISTS idx_sessions_date ON sessions(date);

	-- At most one user is logged in at a time
	CREATE TABLE IF NOT EXISTS users (
		slot INTEGER PRIMARY KEY CHECK (slot = 1),
		user_json TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// Put inserts or replaces a session.
func (s *SQLiteStore) Put(ctx context.Context, session *model.AnalysisSession) error {
	if err := prepare(session); err != nil {
		return err
	}

	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}

	query := `
	INSERT INTO sessions (id, user_id, platform, date, total_followers, suspicious_count, inactive_count, average_score, session_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		user_id = excluded.user_id,
		platform = excluded.platform,
		date = excluded.date,
		total_followers = excluded.total_followers,
		suspicious_count = excluded.suspicious_count,
		inactive_count = excluded.inactive_count,
		average_score = excluded.average_score,
		session_json = excluded.session_json
	`

	_, err = s.db.ExecContext(ctx, query,
		session.ID,
		session.UserID,
		string(session.Platform),
		session.Date.UTC().Format(dateLayout),
		session.TotalFollowers,
		session.Summary.SuspiciousCount,
		session.Summary.InactiveCount,
		session.Summary.AverageRealScore,
		string(sessionJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Get retrieves a session by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*model.AnalysisSession, error) {
	var sessionJSON string
	err := s.db.QueryRowContext(ctx, `SELECT session_json FROM sessions WHERE id = ?`, id).Scan(&sessionJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return decodeSession([]byte(sessionJSON))
}

// List returns the sessions of userID, newest first. Rows that no longer
// decode into a valid session are skipped with a warning.
func (s *SQLiteStore) List(ctx context.Context, userID string) ([]*model.AnalysisSession, error) {
	query := `SELECT id, session_json FROM sessions WHERE 1=1`
	args := make([]any, 0, 1)
	if userID != "" {
		query += " AND user_id = ?"
		args = append(args, userID)
	}
	query += " ORDER BY date DESC, id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]*model.AnalysisSession, 0)
	for rows.Next() {
		var id, sessionJSON string
		if err := rows.Scan(&id, &sessionJSON); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		session, err := decodeSession([]byte(sessionJSON))
		if err != nil {
			s.logger.Warn("skipping unreadable session", "session", id, "error", err)
			continue
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

// Delete removes a session.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return nil
}

// SaveUser stores the logged in user.
func (s *SQLiteStore) SaveUser(ctx context.Context, user *model.User) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to serialize user: %w", err)
	}

	query := `
	INSERT INTO users (slot, user_json) VALUES (1, ?)
	ON CONFLICT(slot) DO UPDATE SET
		user_json = excluded.user_json,
		updated_at = CURRENT_TIMESTAMP
	`
	if _, err := s.db.ExecContext(ctx, query, string(userJSON)); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// LoadUser returns the logged in user.
func (s *SQLiteStore) LoadUser(ctx context.Context) (*model.User, error) {
	var userJSON string
	err := s.db.QueryRowContext(ctx, `SELECT user_json FROM users WHERE slot = 1`).Scan(&userJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	var user model.User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return nil, fmt.Errorf("failed to parse user: %w", err)
	}
	return &user, nil
}

// DeleteUser removes the logged in user.
func (s *SQLiteStore) DeleteUser(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE slot = 1`); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// decodeSession parses a stored session and refreshes its aggregates.
func decodeSession(data []byte) (*model.AnalysisSession, error) {
	var session model.AnalysisSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}
	if err := prepare(&session); err != nil {
		return nil, err
	}
	return &session, nil
}
