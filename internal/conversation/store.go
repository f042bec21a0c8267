package conversation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store persists bounded per-session conversational history.
type Store interface {
	// History returns the session's turns, oldest first. A session that
	// was never written to yields an empty history, not an error.
	History(ctx context.Context, sessionID string) ([]Record, error)
	// AppendExchange appends a user record and the matching model record
	// in one step, then truncates the session to HistoryCap entries.
	AppendExchange(ctx context.Context, sessionID string, user, model Record) error
	// Clear removes the session entirely and reports whether it existed.
	Clear(ctx context.Context, sessionID string) (bool, error)
	Close() error
}

// InMemoryStore is the default process-local store. Access is serialized
// behind a mutex so concurrent turns for the same session cannot race the
// cap invariant.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string][]Record)}
}

func (s *InMemoryStore) History(_ context.Context, sessionID string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	arr := s.sessions[sessionID]
	if len(arr) == 0 {
		return nil, nil
	}
	out := make([]Record, len(arr))
	copy(out, arr)
	return out, nil
}

func (s *InMemoryStore) AppendExchange(_ context.Context, sessionID string, user, model Record) error {
	stampRecord(&user, RoleUser)
	stampRecord(&model, RoleModel)

	s.mu.Lock()
	defer s.mu.Unlock()
	arr := append(s.sessions[sessionID], user, model)
	if len(arr) > HistoryCap {
		arr = arr[len(arr)-HistoryCap:]
	}
	s.sessions[sessionID] = arr
	return nil
}

func (s *InMemoryStore) Clear(_ context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[sessionID]
	if ok {
		delete(s.sessions, sessionID)
	}
	return ok, nil
}

func (s *InMemoryStore) Close() error { return nil }

func stampRecord(r *Record, role Role) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Role == "" {
		r.Role = role
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
}
