// Package memory stores per-session conversation history behind a small
// Store interface so the answer composer can be wired to an in-process map
// or an external cache.
package memory

import (
	"context"
	"sync"

	"github.com/tuned-app/tuned/pkg/model"
)

// Store persists question/answer exchanges per session. Append has no size
// cap; Read surfaces only the most recent model.HistoryWindow exchanges,
// oldest first. An unknown session reads as empty history.
type Store interface {
	Append(ctx context.Context, id model.SessionID, question, answer string) error
	Read(ctx context.Context, id model.SessionID) ([]model.Exchange, error)
}

// inMemoryStore keeps sessions in a process-local map. Safe for concurrent
// session creation and cross-session access.
type inMemoryStore struct {
	mu       sync.RWMutex
	sessions map[model.SessionID][]model.Exchange
}

// New creates an in-process Store.
func New() Store {
	return &inMemoryStore{
		sessions: make(map[model.SessionID][]model.Exchange),
	}
}

func (s *inMemoryStore) Append(ctx context.Context, id model.SessionID, question, answer string) error {
	id = id.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = append(s.sessions[id], model.Exchange{
		Question: question,
		Answer:   answer,
	})
	return nil
}

func (s *inMemoryStore) Read(ctx context.Context, id model.SessionID) ([]model.Exchange, error) {
	id = id.Normalize()

	s.mu.RLock()
	defer s.mu.RUnlock()

	exchanges := s.sessions[id]
	if len(exchanges) > model.HistoryWindow {
		exchanges = exchanges[len(exchanges)-model.HistoryWindow:]
	}

	out := make([]model.Exchange, len(exchanges))
	copy(out, exchanges)
	return out, nil
}
