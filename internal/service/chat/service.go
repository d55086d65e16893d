// Package chat manages conversation sessions and the state each one owns.
package chat

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avelasco/cryptochat/backend/internal/conversation"
	"github.com/avelasco/cryptochat/backend/internal/model/chat"
	"github.com/avelasco/cryptochat/backend/internal/model/market"
	"github.com/avelasco/cryptochat/backend/internal/portfolio"
)

var ErrSessionNotFound = errors.New("session not found")

// Conversation bundles the per-session state the dispatch engine operates
// on: the append-only log, the holdings ledger, and the chart series the
// most recent chart query produced. The ledger and log are threaded into
// the orchestrator explicitly rather than held as ambient globals.
type Conversation struct {
	Session chat.Session
	Log     *conversation.Log
	Ledger  *portfolio.Ledger

	mu     sync.RWMutex
	series *market.PriceSeries
}

// SetSeries replaces the currently displayed chart series.
func (c *Conversation) SetSeries(series *market.PriceSeries) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.series = series
}

// Series returns the current chart series, or nil when none was requested.
func (c *Conversation) Series() *market.PriceSeries {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.series
}

// Service encapsulates conversation state management.
type Service struct {
	mu            sync.RWMutex
	conversations map[string]*Conversation
}

// NewService bootstraps the in-memory chat service; state lives only for
// the lifetime of the process.
func NewService() *Service {
	return &Service{conversations: make(map[string]*Conversation)}
}

// CreateSession provisions an anonymous session with an empty log and ledger.
func (s *Service) CreateSession(_ context.Context) chat.Session {
	session := chat.Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.conversations[session.ID] = &Conversation{
		Session: session,
		Log:     conversation.NewLog(),
		Ledger:  portfolio.NewLedger(),
	}
	s.mu.Unlock()

	return session
}

// Get retrieves the conversation bound to a session id.
func (s *Service) Get(_ context.Context, sessionID string) (*Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return conv, nil
}
