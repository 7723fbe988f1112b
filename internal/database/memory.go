package database

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/nao1215/realreach/internal/model"
)

// MemoryStore keeps sessions and the user in memory.
// Values are copied on the way in and out, so callers can not modify
// stored state through returned pointers.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*model.AnalysisSession
	user     *model.User
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*model.AnalysisSession),
	}
}

// Put inserts or replaces a session.
func (m *MemoryStore) Put(ctx context.Context, session *model.AnalysisSession) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := prepare(session); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = session.Clone()
	return nil
}

// Get retrieves a session by ID.
func (m *MemoryStore) Get(ctx context.Context, id string) (*model.AnalysisSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return session.Clone(), nil
}

// List returns the sessions of userID, newest first.
func (m *MemoryStore) List(ctx context.Context, userID string) ([]*model.AnalysisSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	sessions := make([]*model.AnalysisSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		if userID == "" || s.UserID == userID {
			sessions = append(sessions, s.Clone())
		}
	}
	m.mu.RUnlock()

	slices.SortFunc(sessions, func(a, b *model.AnalysisSession) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return sessions, nil
}

// Delete removes a session.
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(m.sessions, id)
	return nil
}

// SaveUser stores the logged in user.
func (m *MemoryStore) SaveUser(_ context.Context, user *model.User) error {
	u := *user
	m.mu.Lock()
	m.user = &u
	m.mu.Unlock()
	return nil
}

// LoadUser returns the logged in user.
func (m *MemoryStore) LoadUser(_ context.Context) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil, ErrUserNotFound
	}
	u := *m.user
	return &u, nil
}

// DeleteUser removes the logged in user.
func (m *MemoryStore) DeleteUser(_ context.Context) error {
	m.mu.Lock()
	m.user = nil
	m.mu.Unlock()
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}
