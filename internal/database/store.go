package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/nao1215/realreach/internal/model"
)

var (
	// ErrSessionNotFound is returned when no session has the requested ID.
	ErrSessionNotFound = errors.New("analysis session not found")

	// ErrUserNotFound is returned by LoadUser when nobody is logged in.
	ErrUserNotFound = errors.New("no user stored")
)

// Store persists analysis sessions.
type Store interface {
	// Get returns the session with the given ID or ErrSessionNotFound.
	Get(ctx context.Context, id string) (*model.AnalysisSession, error)

	// List returns the sessions of userID, newest first. An empty userID
	// lists every session.
	List(ctx context.Context, userID string) ([]*model.AnalysisSession, error)

	// Put inserts or replaces a session.
	Put(ctx context.Context, session *model.AnalysisSession) error

	// Delete removes a session. Deleting an unknown ID returns ErrSessionNotFound.
	Delete(ctx context.Context, id string) error

	// Close releases the resources held by the store.
	Close() error
}

// UserStore persists the single logged in user.
type UserStore interface {
	// SaveUser stores user, replacing any previous one.
	SaveUser(ctx context.Context, user *model.User) error

	// LoadUser returns the stored user or ErrUserNotFound.
	LoadUser(ctx context.Context) (*model.User, error)

	// DeleteUser removes the stored user. It is not an error if none is stored.
	DeleteUser(ctx context.Context) error
}

// SessionUserStore is implemented by every store in this package.
type SessionUserStore interface {
	Store
	UserStore
}

// prepare recomputes aggregates and validates a session before it is
// written or after it is read.
func prepare(session *model.AnalysisSession) error {
	if session == nil {
		return fmt.Errorf("%w: nil session", model.ErrInvalidSession)
	}
	session.Recompute()
	return session.Validate()
}
